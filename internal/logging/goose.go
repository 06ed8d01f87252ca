// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package logging

import (
	"fmt"
	"strings"
)

// GooseLogger adapts the logger to the goose migration logger interface.
func (log *Logger) GooseLogger() *GooseLogger {
	return &GooseLogger{log: log.Named("goose")}
}

type GooseLogger struct {
	log *Logger
}

func (g *GooseLogger) Fatal(v ...interface{}) {
	g.log.Fatal(strings.TrimSpace(fmt.Sprint(v...)))
}

func (g *GooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Fatal(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g *GooseLogger) Print(v ...interface{}) {
	g.log.Info(strings.TrimSpace(fmt.Sprint(v...)))
}

func (g *GooseLogger) Println(v ...interface{}) {
	g.log.Info(strings.TrimSpace(fmt.Sprint(v...)))
}

func (g *GooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
