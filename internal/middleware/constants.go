package middleware

// HeaderRequestID carries the request id in both directions
const HeaderRequestID = "X-Request-ID"

// MaxRequestIDLength bounds caller-supplied ids before they reach the logs
const MaxRequestIDLength = 64
