package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type testConfig struct {
	Name  string `toml:"name"`
	Value int    `toml:"value"`
}

func loadTestConfig(path string) (testConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return testConfig{}, err
	}
	var cfg testConfig
	err = toml.Unmarshal(data, &cfg)
	return cfg, err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// startWatcher writes the initial body, starts a watcher and registers cleanup.
func startWatcher(t *testing.T, body string, opts ...WatcherOption[testConfig]) (*Watcher[testConfig], string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, body)

	opts = append([]WatcherOption[testConfig]{WithDebounce[testConfig](50 * time.Millisecond)}, opts...)
	w := NewConfigWatcher(path, loadTestConfig, newTestLogger(), opts...)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := w.Stop(); err != nil {
			t.Errorf("watcher.Stop failed: %v", err)
		}
	})

	time.Sleep(100 * time.Millisecond)
	return w, path
}

func TestConfigWatcher_BasicReload(t *testing.T) {
	w, path := startWatcher(t, "name = \"initial\"\nvalue = 1\n")

	received := make(chan testConfig, 1)
	w.OnReload(func(cfg testConfig) { received <- cfg })

	writeConfig(t, path, "name = \"updated\"\nvalue = 42\n")

	select {
	case cfg := <-received:
		if cfg.Name != "updated" || cfg.Value != 42 {
			t.Errorf("got %+v, want name=updated, value=42", cfg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for config reload")
	}
}

func TestConfigWatcher_RenameReplace(t *testing.T) {
	w, path := startWatcher(t, "value = 1\n")

	received := make(chan testConfig, 4)
	w.OnReload(func(cfg testConfig) { received <- cfg })

	tmp := path + ".swp"
	writeConfig(t, tmp, "value = 7\n")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-received:
		if cfg.Value != 7 {
			t.Errorf("expected value=7, got %d", cfg.Value)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload after rename")
	}
}

func TestConfigWatcher_IgnoresSiblingFiles(t *testing.T) {
	w, path := startWatcher(t, "value = 1\n")

	var count atomic.Int32
	w.OnReload(func(_ testConfig) { count.Add(1) })

	writeConfig(t, filepath.Join(filepath.Dir(path), "other.toml"), "value = 2\n")
	time.Sleep(200 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("expected no reload for sibling file, got %d", got)
	}
}

func TestConfigWatcher_FreshConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "value = 1\n")

	var loadCount atomic.Int32
	loader := func(p string) (testConfig, error) {
		loadCount.Add(1)
		return loadTestConfig(p)
	}

	w := NewConfigWatcher(path, loader, newTestLogger(), WithDebounce[testConfig](50*time.Millisecond))
	received := make(chan testConfig, 10)
	w.OnReload(func(cfg testConfig) { received <- cfg })
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	writeConfig(t, path, "value = 10\n")
	<-received

	time.Sleep(100 * time.Millisecond)
	writeConfig(t, path, "value = 20\n")
	cfg := <-received

	if cfg.Value != 20 {
		t.Errorf("expected value=20, got %d", cfg.Value)
	}
	if got := loadCount.Load(); got < 2 {
		t.Errorf("expected at least 2 loads, got %d", got)
	}
}

func TestConfigWatcher_MultipleHandlers(t *testing.T) {
	w, path := startWatcher(t, "name = \"test\"\nvalue = 1\n")

	var mu sync.Mutex
	var configs []testConfig
	for range 3 {
		w.OnReload(func(cfg testConfig) {
			mu.Lock()
			configs = append(configs, cfg)
			mu.Unlock()
		})
	}

	writeConfig(t, path, "name = \"new\"\nvalue = 2\n")
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(configs) != 3 {
		t.Fatalf("expected 3 handlers called, got %d", len(configs))
	}
	for i, cfg := range configs {
		if cfg.Name != "new" || cfg.Value != 2 {
			t.Errorf("handler %d got wrong config: %+v", i, cfg)
		}
	}
}

func TestConfigWatcher_Unsubscribe(t *testing.T) {
	w, path := startWatcher(t, "value = 1\n")

	var last1, last2 atomic.Int32
	var count1, count2 atomic.Int32
	w.OnReload(func(cfg testConfig) {
		last1.Store(int32(cfg.Value))
		count1.Add(1)
	})
	unsub2 := w.OnReload(func(cfg testConfig) {
		last2.Store(int32(cfg.Value))
		count2.Add(1)
	})

	writeConfig(t, path, "value = 10\n")
	time.Sleep(300 * time.Millisecond)

	unsub2()

	writeConfig(t, path, "value = 20\n")
	time.Sleep(300 * time.Millisecond)

	if got := count1.Load(); got != 2 {
		t.Errorf("handler1: expected 2 calls, got %d", got)
	}
	if got := count2.Load(); got != 1 {
		t.Errorf("handler2: expected 1 call, got %d", got)
	}
	if got := last1.Load(); got != 20 {
		t.Errorf("handler1: expected last value 20, got %d", got)
	}
	if got := last2.Load(); got != 10 {
		t.Errorf("handler2: expected last value 10, got %d", got)
	}
}

func TestConfigWatcher_ErrorHandler(t *testing.T) {
	errorReceived := make(chan error, 1)
	w, path := startWatcher(t, "name = \"valid\"\n",
		WithErrorHandler[testConfig](func(err error) {
			select {
			case errorReceived <- err:
			default:
			}
		}),
	)

	configReceived := make(chan testConfig, 1)
	w.OnReload(func(cfg testConfig) { configReceived <- cfg })

	writeConfig(t, path, "invalid toml [[[")

	select {
	case <-errorReceived:
	case <-configReceived:
		t.Fatal("config handler should not be called on error")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error handler")
	}
}

func TestConfigWatcher_Debounce(t *testing.T) {
	w, path := startWatcher(t, "value = 0\n", WithDebounce[testConfig](200*time.Millisecond))

	var count, lastValue atomic.Int32
	w.OnReload(func(cfg testConfig) {
		count.Add(1)
		lastValue.Store(int32(cfg.Value))
	})

	for i := 1; i <= 5; i++ {
		writeConfig(t, path, fmt.Sprintf("value = %d\n", i))
		time.Sleep(50 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)

	if got := count.Load(); got != 1 {
		t.Errorf("expected 1 debounced call, got %d", got)
	}
	if got := lastValue.Load(); got != 5 {
		t.Errorf("expected final value 5, got %d", got)
	}
}

func TestConfigWatcher_ThreadSafety(t *testing.T) {
	w, path := startWatcher(t, "name = \"test\"\n", WithDebounce[testConfig](10*time.Millisecond))

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := w.OnReload(func(_ testConfig) {})
			time.Sleep(time.Millisecond)
			unsub()
		}()
	}

	for i := range 10 {
		writeConfig(t, path, fmt.Sprintf("value = %d\n", i))
		time.Sleep(20 * time.Millisecond)
	}
	wg.Wait()
}

func TestConfigWatcher_Stop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfig(t, path, "value = 1\n")

	var count atomic.Int32
	w := NewConfigWatcher(path, loadTestConfig, newTestLogger(), WithDebounce[testConfig](50*time.Millisecond))
	w.OnReload(func(_ testConfig) { count.Add(1) })
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}

	time.Sleep(100 * time.Millisecond)
	if err := w.Stop(); err != nil {
		t.Fatal(err)
	}

	writeConfig(t, path, "value = 99\n")
	time.Sleep(200 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("expected 0 calls after stop, got %d", got)
	}
}

func TestConfigWatcher_Current(t *testing.T) {
	w, path := startWatcher(t, "value = 1\n")

	if _, ok := w.Current(); ok {
		t.Fatal("Current() should report nothing before the first reload")
	}

	received := make(chan testConfig, 1)
	w.OnReload(func(cfg testConfig) { received <- cfg })
	writeConfig(t, path, "name = \"current\"\nvalue = 5\n")

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for config reload")
	}

	cfg, ok := w.Current()
	if !ok || cfg.Name != "current" || cfg.Value != 5 {
		t.Errorf("Current() = %+v, %v", cfg, ok)
	}
}

func TestConfigWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	w := NewConfigWatcher(path, loadTestConfig, newTestLogger())

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop before Start: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}
