/* Copyright 2025 Libris Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	colorRed    = color.New(color.FgRed)
	colorGreen  = color.New(color.FgGreen)
	colorYellow = color.New(color.FgYellow)
	colorBlue   = color.New(color.FgBlue)
	colorGray   = color.New(color.FgHiBlack)
)

const indent = "  "

// console prints command output for a human reader
type console struct {
	w io.Writer
}

func newConsole(cmd *cobra.Command) console {
	return console{w: cmd.OutOrStdout()}
}

func (c console) line(symbol, msg string, v ...interface{}) {
	fmt.Fprintf(c.w, "%s%s %s\n", indent, symbol, fmt.Sprintf(msg, v...))
}

// Infof prints information
func (c console) Infof(msg string, v ...interface{}) {
	c.line(colorBlue.Sprint("•"), msg, v...)
}

// Successf prints a success message
func (c console) Successf(msg string, v ...interface{}) {
	c.line(colorGreen.Sprint("✔"), msg, v...)
}

// Warnf prints a warning
func (c console) Warnf(msg string, v ...interface{}) {
	c.line(colorYellow.Sprint("•"), msg, v...)
}

// Errorf prints an error message
func (c console) Errorf(msg string, v ...interface{}) {
	c.line(colorRed.Sprint("⨯"), msg, v...)
}

// Plainf prints a detail line without any prefix symbol
func (c console) Plainf(msg string, v ...interface{}) {
	fmt.Fprintf(c.w, "%s%s\n", indent+indent, colorGray.Sprintf(msg, v...))
}

// PrintError prints an error returned by a command
func PrintError(err error) {
	console{w: color.Error}.Errorf("%s", err.Error())
}
