package mocks

import (
	"context"
	"sync"
)

// SentMail is a message captured by MockMailer.
type SentMail struct {
	To        string
	VerifyURL string
}

// MockMailer records verification mails instead of sending them.
type MockMailer struct {
	// Err, when set, is returned from every send.
	Err error

	mu   sync.Mutex
	sent []SentMail
}

// SendVerification records the mail and returns Err.
func (m *MockMailer) SendVerification(_ context.Context, to, verifyURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, SentMail{To: to, VerifyURL: verifyURL})
	return m.Err
}

// Sent returns a copy of the recorded mails.
func (m *MockMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMail(nil), m.sent...)
}

// UploadedImage is an object captured by MockImageHost.
type UploadedImage struct {
	Key         string
	Data        []byte
	ContentType string
}

// MockImageHost records uploads and returns BaseURL + "/" + key.
type MockImageHost struct {
	BaseURL string
	Err     error

	mu       sync.Mutex
	uploaded []UploadedImage
}

// Upload implements the image host contract.
func (m *MockImageHost) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	m.uploaded = append(m.uploaded, UploadedImage{Key: key, Data: data, ContentType: contentType})
	return m.BaseURL + "/" + key, nil
}

// Uploaded returns a copy of the recorded uploads.
func (m *MockImageHost) Uploaded() []UploadedImage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]UploadedImage(nil), m.uploaded...)
}

// MockEventRecorder counts auth events by "event/outcome".
type MockEventRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

// RecordAuthEvent implements auth.EventRecorder.
func (m *MockEventRecorder) RecordAuthEvent(event, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	m.counts[event+"/"+outcome]++
}

// Count returns how often event/outcome was recorded.
func (m *MockEventRecorder) Count(event, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[event+"/"+outcome]
}
