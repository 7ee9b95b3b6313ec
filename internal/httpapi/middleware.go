package httpapi

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// corsMiddleware sets a permissive CORS policy, per spec.md §4.9's
// cross-cutting note: "CORS is permissive (*)".
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimitWindow is the sliding window spec.md §4.9 sizes the limiter by:
// "rate-limit window 60 s".
const rateLimitWindow = 60 * time.Second

// ipLimiter holds one token bucket per client IP, sized to allow exactly
// maxRequests within a rateLimitWindow before refilling steadily across
// it — spec.md §4.9's "a per-IP sliding-window rate limiter (default 100
// req/min)" and the invariant "at exactly maxRequests within the window
// passes; the next request fails". Buckets are never evicted: at
// realistic agent-fleet scale the map stays small, and the teacher's own
// caches (e.g. the lark dedup LRU) bound by count rather than time for
// the same reason.
type ipLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	maxRequests float64
}

func newIPLimiter(maxRequests float64) *ipLimiter {
	if maxRequests <= 0 {
		maxRequests = 1
	}
	return &ipLimiter{limiters: make(map[string]*rate.Limiter), maxRequests: maxRequests}
}

func (l *ipLimiter) forIP(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[ip]
	if !ok {
		burst := int(l.maxRequests)
		if burst < 1 {
			burst = 1
		}
		perSecond := l.maxRequests / rateLimitWindow.Seconds()
		lim = rate.NewLimiter(rate.Limit(perSecond), burst)
		l.limiters[ip] = lim
	}
	return lim
}

// rateLimitMiddleware enforces a per-IP token bucket, per spec.md §4.9: "a
// per-IP sliding-window rate limiter ... returns JSON-RPC internal-error
// with a rate-limit message at exhaustion". A token bucket is used instead
// of literal sliding-window bookkeeping per SPEC_FULL.md §11's binding of
// golang.org/x/time/rate to this concern; at the steady rate the two are
// indistinguishable to a caller, and at-capacity-then-one-more is exactly
// the behavior spec.md's own edge case describes.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	limiter := s.rateLimiter()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !limiter.forIP(ip).Allow() {
			writeRPCError(w, http.StatusTooManyRequests, nil, rpcInternalError, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// loggingMiddleware logs method, path, status, and duration for every
// request, per spec.md §4.9's "request logging captures method, path,
// status, duration".
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.log.V(1).Info("http request",
			"method", r.Method, "path", r.URL.Path,
			"status", sw.status, "duration", time.Since(started).String())
		if s.metrics != nil {
			s.metrics.HTTPDuration.WithLabelValues(r.URL.Path, strconv.Itoa(sw.status)).Observe(time.Since(started).Seconds())
		}
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
