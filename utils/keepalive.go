package utils

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

var keepAliveClient = &http.Client{Timeout: 10 * time.Second}

// StartKeepAlive pings the given URL every 10 minutes so free-tier hosting
// does not put the process to sleep. An empty URL disables the pinger.
func StartKeepAlive(url string) {
	if url == "" {
		return
	}
	go func() {
		logger := GetLogger()
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			resp, err := keepAliveClient.Get(url)
			if err != nil {
				logger.Warn("Keep-alive ping failed", zap.Error(err))
				continue
			}
			resp.Body.Close()
			logger.Info("Keep-alive ping sent", zap.String("url", url))
		}
	}()
}
