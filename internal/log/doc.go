// Package log provides secure logging functionality with automatic
// sanitization of sensitive information, built on top of the standard slog
// package.
//
// The analyzer handles credentials in two places: the remote audit API key
// (passed as a query parameter) and per-site HTTP headers/cookies from the
// configuration file. The SecureHandler masks both before log records reach
// the underlying handler, so even verbose logs are safe to share.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("audit request sent",
//	    "api_key", "AIzaSyB...",   // masked
//	    "url", "https://example.com",
//	)
//
//	slog.SetDefault(logger)
package log
