package utils

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"
)

func TestWaitForReturnsImmediatelyForNonPositiveDuration(t *testing.T) {
	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestWaitForHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WaitFor(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestReadBody(t *testing.T) {
	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	if _, err := zw.Write([]byte(`{"ok":true}`)); err != nil {
		t.Fatalf("writing gzip payload: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing gzip writer: %v", err)
	}

	tests := []struct {
		name     string
		encoding string
		body     []byte
	}{
		{name: "plain", body: []byte(`{"ok":true}`)},
		{name: "gzip", encoding: "gzip", body: compressed.Bytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{
				Header: http.Header{},
				Body:   io.NopCloser(bytes.NewReader(tt.body)),
			}
			if tt.encoding != "" {
				resp.Header.Set("Content-Encoding", tt.encoding)
			}

			data, err := ReadBody(resp)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(data) != `{"ok":true}` {
				t.Fatalf("unexpected body: %q", data)
			}
		})
	}
}
