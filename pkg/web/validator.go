// Package web implements validation of links that point outside the book,
// i.e. any link starting with http(s) that is not a GitHub repository link
// (those are covered by the github package).
package web

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"linkcheck/pkg/errs"
	"linkcheck/pkg/regex"
)

type LinkProcessor struct {
	httpClient *http.Client
	userAgent  string
	logger     *zap.Logger
}

func New(timeout time.Duration, userAgent string, logger *zap.Logger) *LinkProcessor {
	httpClient := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			logger.Debug("redirecting", zap.String("to", req.URL.String()), zap.Int("hops", len(via)))
			redirectLimit := 3
			if len(via) > redirectLimit {
				logger.Error("too many redirects", zap.Int("redirect limit", redirectLimit))
			}
			for k, vs := range via[0].Header {
				if req.Header.Get(k) == "" {
					for _, v := range vs {
						req.Header.Add(k, v)
					}
				}
			}
			return nil
		},
	}

	return &LinkProcessor{
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     logger,
	}
}

func (proc *LinkProcessor) Process(ctx context.Context, url string, _ string) error {
	proc.logger.Debug("Validating external url", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, "GET", url, bytes.NewBuffer(nil))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", proc.userAgent)

	resp, err := proc.httpClient.Do(req)
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		// we can't proceed without authentication, so we don't know whether the url is alive
		proc.logger.Info("requires auth", zap.Int("statusCode", resp.StatusCode), zap.String("url", url))
		return nil
	case resp.StatusCode == 404 || resp.StatusCode == 410:
		proc.logger.Debug("not found", zap.Int("statusCode", resp.StatusCode), zap.String("url", url))
		return errs.NewNotFound(url)
	case resp.StatusCode == 429:
		proc.logger.Info("probably rate limit", zap.String("ra", resp.Header.Get("Retry-After")), zap.String("url", url))
		return nil
	case resp.StatusCode >= 500 && resp.StatusCode <= 599:
		proc.logger.Info("ignoring the url validation due to problems on the remote server", zap.Int("statusCode", resp.StatusCode), zap.String("url", url))
		return nil
	case 200 <= resp.StatusCode && resp.StatusCode <= 299:
		// check just the first 10 KB of the body
		bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 10240))
		if err != nil {
			// we can't read body, something is off
			return err
		}
		err = resp.Body.Close()
		if err != nil {
			proc.logger.Info("error closing body: ", zap.Error(err))
		}

		if len(bodyBytes) == 0 {
			// body is empty, doesn't count as a healthy URL
			return errs.NewEmptyBody(url)
		}

		body := strings.ToLower(string(bodyBytes))
		if strings.Contains(body, "page not found") {
			// TODO: this needs to be improved
			return errs.NewNotFound(url)
		}
		return nil
	default:
		proc.logger.Warn("unexpected status", zap.Int("statusCode", resp.StatusCode), zap.String("url", url))
		return nil
	}
}

func (proc *LinkProcessor) ExtractLinks(line string) []string {
	parts := regex.Url.FindAllString(line, -1)
	urls := make([]string, 0, len(parts))

	for _, raw := range parts {
		// markdown leaves closing punctuation glued to the url
		raw = strings.TrimRight(raw, ").,;:!?")
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			continue // skip malformed
		}
		if regex.GitHubRepo.MatchString(raw) {
			continue // repository links belong to the github validator
		}

		urls = append(urls, raw)
	}
	return urls
}
