package engine

import (
	"github.com/datallboy/toolfetch/internal/domain"
	"github.com/datallboy/toolfetch/internal/infra/logger"
)

// Sinks fans every event out to each sink in order
type Sinks []domain.EventSink

func (s Sinks) OnStarted(url string) {
	for _, sink := range s {
		sink.OnStarted(url)
	}
}

func (s Sinks) OnOutput(url, text string) {
	for _, sink := range s {
		sink.OnOutput(url, text)
	}
}

func (s Sinks) OnFinished(url string) {
	for _, sink := range s {
		sink.OnFinished(url)
	}
}

// LogSink writes lifecycle events to the application log
type LogSink struct {
	Logger *logger.Logger
}

func (l LogSink) OnStarted(url string) { l.Logger.Info("[start] %s", url) }

func (l LogSink) OnOutput(url, text string) {
	if url == "" {
		l.Logger.Warn("[status] %s", text)
		return
	}
	l.Logger.Debug("[output] %s: %s", url, text)
}

func (l LogSink) OnFinished(url string) { l.Logger.Info("[finish] %s", url) }
