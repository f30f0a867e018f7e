package classifier

import (
	"context"
	"sync"
	"time"

	"nestly/config"
)

// QuotaLimiter 는 분류용 LLM 호출에 대한 분당/일일 한도를 관리한다.
// 인스턴스별 인메모리 카운터이며 재시작하면 초기화된다.
type QuotaLimiter struct {
	mu sync.Mutex

	dailyLimit int
	usedToday  int
	dayKey     string

	interval time.Duration
	lastCall time.Time

	now func() time.Time
}

// NewQuotaLimiter 는 0 이하의 값을 해당 방향 제한 없음으로 본다.
func NewQuotaLimiter(requestsPerMinute, requestsPerDay int) *QuotaLimiter {
	if requestsPerDay < 0 {
		requestsPerDay = 0
	}

	var interval time.Duration
	if requestsPerMinute > 0 {
		interval = time.Minute / time.Duration(requestsPerMinute)
	}

	return &QuotaLimiter{
		dailyLimit: requestsPerDay,
		interval:   interval,
		now:        time.Now,
	}
}

func NewQuotaLimiterFromConfig(cfg config.ClassifierQuotaConfig) *QuotaLimiter {
	return NewQuotaLimiter(cfg.RequestsPerMinute, cfg.RequestsPerDay)
}

// WaitAndReserve 는 LLM 호출 전에 한도를 적용한다.
// - 일일 한도 소진: (false, nil). 호출자는 규칙 기반 분류로 넘어간다.
// - 컨텍스트 취소: (false, ctx.Err()).
func (l *QuotaLimiter) WaitAndReserve(ctx context.Context) (bool, error) {
	for {
		l.mu.Lock()

		now := l.now().UTC()
		todayKey := now.Format("2006-01-02")
		if l.dayKey != todayKey {
			l.dayKey = todayKey
			l.usedToday = 0
		}

		if l.dailyLimit > 0 && l.usedToday >= l.dailyLimit {
			l.mu.Unlock()
			return false, nil
		}

		var delay time.Duration
		if l.interval > 0 && !l.lastCall.IsZero() {
			delay = l.lastCall.Add(l.interval).Sub(now)
		}

		if delay <= 0 {
			l.usedToday++
			l.lastCall = now
			l.mu.Unlock()
			return true, nil
		}

		// 락을 풀고 기다린 뒤 상태를 다시 평가한다.
		l.mu.Unlock()
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		}
	}
}
