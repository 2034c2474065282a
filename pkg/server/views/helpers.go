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

package views

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/libris/libris/pkg/server/app"
	"github.com/libris/libris/pkg/server/database"
	"github.com/libris/libris/pkg/server/helpers"
)

const (
	dateLayout     = "2 Jan 2006"
	dateTimeLayout = "2 Jan 2006 15:04"
)

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(dateLayout)
}

func formatDateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

func statusLabel(status string) string {
	if label, ok := database.LoanStatusLabels[status]; ok {
		return label
	}

	return status
}

// pageURL returns the path with the current query and the given page number
func pageURL(path string, query url.Values, page int) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("page", strconv.Itoa(page))

	return helpers.GetPath(path, &q)
}

func add(a, b int) int {
	return a + b
}

func paragraphs(s string) []string {
	var ret []string
	for _, p := range strings.Split(s, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			ret = append(ret, p)
		}
	}

	return ret
}

func newHelpers(c Config, a *app.App) template.FuncMap {
	clk := c.getClock()

	assetBaseURL := ""
	if a != nil {
		assetBaseURL = a.AssetBaseURL
	}

	return template.FuncMap{
		"date":         formatDate,
		"optionalDate": formatOptionalDate,
		"datetime":     formatDateTime,
		"statusLabel":  statusLabel,
		"pageURL":      pageURL,
		"add":          add,
		"paragraphs":   paragraphs,
		"isOverdue": func(l database.Loan) bool {
			return l.IsOverdue(clk.Now())
		},
		"daysOverdue": func(l database.Loan) int {
			return l.DaysOverdue(clk.Now())
		},
		"dueText": func(t time.Time) string {
			return dueText(clk.Now(), t)
		},
		"timeAgo": func(t time.Time) string {
			return timeAgo(clk.Now(), t)
		},
		"assetURL": func(path string) string {
			return strings.TrimRight(assetBaseURL, "/") + "/static/" + strings.TrimLeft(path, "/")
		},
		"isActivePath": func(current, prefix string) bool {
			if prefix == "/" {
				return current == "/"
			}
			return strings.HasPrefix(current, prefix)
		},
	}
}
