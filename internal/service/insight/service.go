package insight

import (
	"context"
	"time"

	"go.uber.org/zap"

	"revenuelens/internal/util"
	apperrors "revenuelens/pkg/errors"
)

// Options 服务参数
type Options struct {
	Timeout          time.Duration
	CacheTTL         time.Duration
	FailureThreshold int
	ResetTimeout     time.Duration
}

type providerEntry struct {
	provider Provider
	breaker  *util.CircuitBreaker
}

// Service 点评服务：缓存 -> 主服务 -> 备用服务，任何失败都降级为占位文本
type Service struct {
	providers []providerEntry
	cache     Cache
	opts      Options
	logger    *zap.Logger
}

// NewService 按优先级创建服务；nil provider 被忽略，cache 可为 nil
func NewService(providers []Provider, cache Cache, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.ResetTimeout <= 0 {
		opts.ResetTimeout = time.Minute
	}

	s := &Service{cache: cache, opts: opts, logger: logger}
	for _, p := range providers {
		if p == nil {
			continue
		}
		s.providers = append(s.providers, providerEntry{
			provider: p,
			breaker:  util.NewCircuitBreaker(p.Name(), opts.FailureThreshold, opts.ResetTimeout, logger),
		})
	}
	return s
}

// Enabled 是否有可用的服务
func (s *Service) Enabled() bool {
	return len(s.providers) > 0
}

// ProviderNames 已配置的服务名称
func (s *Service) ProviderNames() []string {
	names := make([]string, 0, len(s.providers))
	for _, e := range s.providers {
		names = append(names, e.provider.Name())
	}
	return names
}

// Generate 生成点评；不返回错误
func (s *Service) Generate(ctx context.Context, in Input) string {
	if !s.Enabled() {
		return FailurePlaceholder
	}

	key := Fingerprint(in)
	if s.cache != nil {
		var cached string
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("insight cache lookup failed", zap.Error(err))
		} else if found && cached != "" {
			return cached
		}
	}

	prompt := BuildPrompt(in)
	for _, e := range s.providers {
		if !e.breaker.CanExecute() {
			s.logger.Debug("insight provider skipped, circuit open", zap.String("provider", e.provider.Name()))
			continue
		}

		text, err := s.call(ctx, e.provider, prompt)
		if err != nil {
			e.breaker.RecordFailure()
			s.logger.Warn("insight provider failed", zap.Error(apperrors.NewInsightError(e.provider.Name(), err)))
			continue
		}
		e.breaker.RecordSuccess()

		if s.cache != nil {
			if err := s.cache.Set(ctx, key, text, s.opts.CacheTTL); err != nil {
				s.logger.Warn("insight cache store failed", zap.Error(err))
			}
		}
		return text
	}
	return FailurePlaceholder
}

func (s *Service) call(ctx context.Context, p Provider, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	return p.Generate(ctx, prompt)
}
