package doctag_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"apidiff/internal/doctag"
	"apidiff/internal/project"
)

func countingTokenizer(calls *atomic.Int32) doctag.Tokenizer {
	return doctag.TokenizerFunc(func(ctx context.Context, comment string) ([]doctag.Doc, error) {
		calls.Add(1)
		return doctag.ParseComment(comment), nil
	})
}

func TestMemoTokenizesEachCommentOnce(t *testing.T) {
	var calls atomic.Int32
	memo := doctag.NewMemo(countingTokenizer(&calls), nil)
	ctx := context.Background()

	for i := 0; i < 16; i++ {
		if _, err := memo.Tokenize(ctx, "/** @since 12 */"); err != nil {
			t.Fatalf("Tokenize: %v", err)
		}
	}
	if _, err := memo.Tokenize(ctx, "/** @since 13 */"); err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("tokenizer called %d times, want 2", got)
	}
	hits, misses := memo.Stats()
	if hits != 15 || misses != 2 {
		t.Fatalf("stats hits=%d misses=%d", hits, misses)
	}
}

func TestMemoDoesNotCacheErrors(t *testing.T) {
	var calls atomic.Int32
	failing := doctag.TokenizerFunc(func(ctx context.Context, comment string) ([]doctag.Doc, error) {
		calls.Add(1)
		return nil, doctag.ErrTimeout
	})
	memo := doctag.NewMemo(failing, nil)
	for i := 0; i < 2; i++ {
		if _, err := memo.Tokenize(context.Background(), "/** x */"); !errors.Is(err, doctag.ErrTimeout) {
			t.Fatalf("want ErrTimeout, got %v", err)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("failed results must not be memoized, calls=%d", calls.Load())
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := doctag.OpenDiskCache(t.TempDir(), "apidiff")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	key := project.Sum([]byte("/** @brief Opens. */"))
	if _, ok, err := cache.Get(key); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	docs := []doctag.Doc{{Description: "", Tags: []doctag.Tag{{Tag: "brief", Name: "Opens."}}}}
	if err := cache.Put(key, docs); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := cache.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(docs, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("cached docs mismatch (-want +got):\n%s", diff)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := cache.Get(key); ok {
		t.Fatal("entry survived DropAll")
	}
}

func TestMemoReadsThroughDiskCache(t *testing.T) {
	dir := t.TempDir()
	cache, err := doctag.OpenDiskCache(dir, "apidiff")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	comment := "/** @permission ohos.permission.CAMERA */"

	var first atomic.Int32
	if _, err := doctag.NewMemo(countingTokenizer(&first), cache).Tokenize(context.Background(), comment); err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	// новый прогон: результат берётся с диска
	var second atomic.Int32
	docs, err := doctag.NewMemo(countingTokenizer(&second), cache).Tokenize(context.Background(), comment)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if first.Load() != 1 || second.Load() != 0 {
		t.Fatalf("calls first=%d second=%d", first.Load(), second.Load())
	}
	if len(docs) != 1 || len(docs[0].Tags) != 1 || docs[0].Tags[0].Tag != "permission" {
		t.Fatalf("unexpected docs from disk: %+v", docs)
	}
}

func TestNewExecTokenizerRejectsEmptyCommand(t *testing.T) {
	if _, err := doctag.NewExecTokenizer(nil, 0); err == nil {
		t.Fatal("empty command accepted")
	}
	tok, err := doctag.NewExecTokenizer([]string{"comment-parser"}, 0)
	if err != nil {
		t.Fatalf("NewExecTokenizer: %v", err)
	}
	if tok.Timeout != doctag.DefaultTimeout {
		t.Fatalf("timeout = %v, want default", tok.Timeout)
	}
}
