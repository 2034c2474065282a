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
	"fmt"
	"time"
)

type timeDiff struct {
	text  string
	tense string
}

func pluralize(singular string, count int) string {
	if count == 1 {
		return singular
	}

	return singular + "s"
}

func abs(num int64) int64 {
	if num < 0 {
		return -num
	}

	return num
}

var (
	day  = 24 * time.Hour.Milliseconds()
	week = 7 * day
)

func getTimeDiffText(interval int64, noun string) string {
	return fmt.Sprintf("%d %s", interval, pluralize(noun, int(interval)))
}

// relativeTimeDiff describes how far t2 is from t1 in the largest whole unit
func relativeTimeDiff(t1, t2 time.Time) timeDiff {
	diff := t1.Sub(t2)
	ts := abs(diff.Milliseconds())

	var tense string
	if diff > 0 {
		tense = "past"
	} else {
		tense = "future"
	}

	units := []struct {
		size int64
		noun string
	}{
		{52 * week, "year"},
		{4 * week, "month"},
		{week, "week"},
		{day, "day"},
		{time.Hour.Milliseconds(), "hour"},
		{time.Minute.Milliseconds(), "minute"},
	}
	for _, u := range units {
		if interval := ts / u.size; interval >= 1 {
			return timeDiff{
				text:  getTimeDiffText(interval, u.noun),
				tense: tense,
			}
		}
	}

	return timeDiff{
		text: "Just now",
	}
}

// timeAgo describes t relative to now, like "3 days ago" or "in 2 weeks"
func timeAgo(now, t time.Time) string {
	d := relativeTimeDiff(now, t)

	switch d.tense {
	case "past":
		return d.text + " ago"
	case "future":
		return "in " + d.text
	default:
		return d.text
	}
}

// dueText describes a due date relative to now, like "due in 4 days" or "2 days overdue"
func dueText(now, due time.Time) string {
	d := relativeTimeDiff(now, due)

	switch d.tense {
	case "past":
		return d.text + " overdue"
	case "future":
		return "due in " + d.text
	default:
		return "due now"
	}
}
