package api

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"sync"
	"time"
)

type pendingDownload struct {
	filePath  string
	filename  string
	expiresAt time.Time
}

// downloadStore 一次性下载令牌，过期或取走后删除结果文件
type downloadStore struct {
	mu    sync.Mutex
	items map[string]pendingDownload
}

func newDownloadStore() *downloadStore {
	return &downloadStore{
		items: make(map[string]pendingDownload),
	}
}

func (s *downloadStore) put(filePath, filename string, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	token = newRandomToken(24)
	s.items[token] = pendingDownload{
		filePath:  filePath,
		filename:  filename,
		expiresAt: time.Now().Add(ttl),
	}
	return token
}

// take 取出并作废令牌
func (s *downloadStore) take(token string) (pendingDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	v, ok := s.items[token]
	if !ok {
		return pendingDownload{}, false
	}
	delete(s.items, token)
	return v, true
}

func (s *downloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
			_ = os.Remove(v.filePath)
		}
	}
}

func (s *downloadStore) purgeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.items {
		delete(s.items, k)
		_ = os.Remove(v.filePath)
	}
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
