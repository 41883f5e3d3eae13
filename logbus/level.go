/*
 * MIT License
 *
 * Copyright (c) 2026 perfcore authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package logbus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level is the six-value logging level this module exposes on the command
// line and in configuration, ordered from most to least severe.
type Level uint8

const (
	Critical Level = 1 + iota
	Error
	Warning
	Info
	Debug
	Trace
)

func (l Level) String() string {
	switch l {
	case Critical:
		return "critical"
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Trace:
		return "trace"
	default:
		return "unknown"
	}
}

// Logrus maps Level onto the underlying logrus level this module's formatter
// runs on.
func (l Level) Logrus() logrus.Level {
	switch l {
	case Critical:
		return logrus.FatalLevel
	case Error:
		return logrus.ErrorLevel
	case Warning:
		return logrus.WarnLevel
	case Info:
		return logrus.InfoLevel
	case Debug:
		return logrus.DebugLevel
	case Trace:
		return logrus.TraceLevel
	default:
		return logrus.InfoLevel
	}
}

// ParseLevel accepts either a decimal digit 1-6 or a level name,
// case-insensitively, and rejects anything else.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)

	if n, err := strconv.Atoi(s); err == nil {
		l := Level(n)
		if l < Critical || l > Trace {
			return 0, fmt.Errorf("logbus: level out of range 1-6: %d", n)
		}
		return l, nil
	}

	switch strings.ToLower(s) {
	case "critical":
		return Critical, nil
	case "error":
		return Error, nil
	case "warning":
		return Warning, nil
	case "info":
		return Info, nil
	case "debug":
		return Debug, nil
	case "trace":
		return Trace, nil
	default:
		return 0, fmt.Errorf("logbus: unrecognized level %q", s)
	}
}

// FindLevel scans argv for the short (-l) or long (--core.log.level) level
// flag, either as a separate following argument or joined with "=", and
// returns the parsed Level. It returns false if the flag is absent.
func FindLevel(argv []string) (Level, bool, error) {
	for i := 0; i < len(argv); i++ {
		a := argv[i]

		if v, ok := splitEquals(a, "--core.log.level"); ok {
			l, err := ParseLevel(v)
			return l, true, err
		}

		if a == "-l" || a == "--core.log.level" {
			if i+1 >= len(argv) {
				return 0, true, fmt.Errorf("logbus: %s requires a value", a)
			}
			l, err := ParseLevel(argv[i+1])
			return l, true, err
		}

		if v, ok := splitEquals(a, "-l"); ok {
			l, err := ParseLevel(v)
			return l, true, err
		}
	}
	return 0, false, nil
}

func splitEquals(arg, flag string) (string, bool) {
	prefix := flag + "="
	if strings.HasPrefix(arg, prefix) {
		return arg[len(prefix):], true
	}
	return "", false
}
