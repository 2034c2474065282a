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

package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/libris/libris/pkg/server/log"
	"golang.org/x/time/rate"
)

const (
	// defaultRatePerSecond is the sustained number of requests a client may make per second
	defaultRatePerSecond = 20
	// defaultBurst is the number of requests a client may make at once
	defaultBurst = 40
	// visitorTTL is how long an idle client keeps its limiter
	visitorTTL = 3 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits the request rate per client address
type RateLimiter struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	every    rate.Limit
	burst    int
}

// NewRateLimiter returns a limiter allowing perSecond requests per second with
// the given burst for each client. Idle clients are forgotten in the background.
func NewRateLimiter(perSecond, burst int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		every:    rate.Limit(perSecond),
		burst:    burst,
	}
	go rl.cleanupVisitors()

	return rl
}

var defaultLimiter = NewRateLimiter(defaultRatePerSecond, defaultBurst)

// getVisitor returns the limiter of a client, creating it on first sight
func (rl *RateLimiter) getVisitor(identifier string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, ok := rl.visitors[identifier]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.every, rl.burst)}
		rl.visitors[identifier] = v
	}
	v.lastSeen = time.Now()

	return v.limiter
}

func (rl *RateLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		rl.forgetIdle(time.Now())
	}
}

func (rl *RateLimiter) forgetIdle(now time.Time) {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	for identifier, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, identifier)
		}
	}
}

// lookupIP returns the client address of the request, honoring proxy headers
func lookupIP(r *http.Request) string {
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		parts := strings.Split(forwardedFor, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i != -1 {
		host = host[:i]
	}

	return host
}

// Limit is a middleware to rate limit the handler
func (rl *RateLimiter) Limit(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identifier := lookupIP(r)

		if !rl.getVisitor(identifier).Allow() {
			log.WithFields(log.Fields{
				"ip":   identifier,
				"path": r.URL.Path,
			}).Warn("Too many requests")

			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	}
}
