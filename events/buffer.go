package events

import (
	"context"
	"sync"
)

type bufferKey struct{}

// Buffer menahan event selama transaksi berjalan. Flush dipanggil setelah
// commit, transaksi yang di-rollback cukup tidak di-flush.
type Buffer struct {
	mu       sync.Mutex
	messages []Message
	parent   *Buffer
}

// WithBuffer memasang Buffer baru di ctx. Buffer di dalam buffer lain
// meneruskan event ke parent saat Flush.
func WithBuffer(ctx context.Context) (context.Context, *Buffer) {
	b := &Buffer{parent: bufferFrom(ctx)}
	return context.WithValue(ctx, bufferKey{}, b), b
}

func bufferFrom(ctx context.Context) *Buffer {
	if ctx == nil {
		return nil
	}
	b, _ := ctx.Value(bufferKey{}).(*Buffer)
	return b
}

// Publish -> tahan event jika ctx membawa Buffer, kalau tidak langsung broadcast
func Publish(ctx context.Context, msg Message) {
	if b := bufferFrom(ctx); b != nil {
		b.add(msg)
		return
	}
	broadcast(msg)
}

func (b *Buffer) add(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
}

// Flush mengirim event yang tertahan sesuai urutan lalu mengosongkan buffer
func (b *Buffer) Flush() {
	b.mu.Lock()
	messages := b.messages
	b.messages = nil
	b.mu.Unlock()

	for _, msg := range messages {
		if b.parent != nil {
			b.parent.add(msg)
			continue
		}
		broadcast(msg)
	}
}

// Len dipakai untuk debug dan test
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.messages)
}
