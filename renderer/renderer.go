package renderer

import (
	"context"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

// UserAgent 는 페이지 fetch 와 headless 렌더링에 공통으로 쓰는 브라우저 UA 이다.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

const maxRenderTime = 30 * time.Second

// ChromePath 는 CHROME_PATH 환경변수, 없으면 Docker/Linux 기본 경로를 돌려준다.
func ChromePath() string {
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return p
	}
	return "/usr/bin/chromium-browser"
}

// RenderHTML 은 JS 렌더링이 끝난 HTML 을 돌려준다.
// ctx 의 deadline 과 30초 중 먼저 도래하는 쪽에서 중단된다.
func RenderHTML(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(ChromePath()),
		chromedp.UserAgent(UserAgent),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-crashpad", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("headless", true),
	)

	ctx, cancel := context.WithTimeout(ctx, maxRenderTime)
	defer cancel()
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1*time.Second),
		chromedp.OuterHTML("html", &htmlContent),
	)
	if err != nil {
		return "", err
	}
	return htmlContent, nil
}
