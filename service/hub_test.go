package service

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// fakeService records lifecycle calls into a shared log
type fakeService struct {
	name     string
	deps     []string
	log      *[]string
	initErr  error
	startErr error
	stopErr  error
	initArgs []any
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }

func (f *fakeService) Init(args ...any) error {
	f.initArgs = args
	*f.log = append(*f.log, "init:"+f.name)
	return f.initErr
}

func (f *fakeService) Start() error {
	*f.log = append(*f.log, "start:"+f.name)
	return f.startErr
}

func (f *fakeService) Stop() error {
	*f.log = append(*f.log, "stop:"+f.name)
	return f.stopErr
}

func TestHubDependencyOrder(t *testing.T) {
	var log []string
	h := NewHub()
	h.Register(&fakeService{name: "mixer", deps: []string{"device"}, log: &log})
	h.Register(&fakeService{name: "device", log: &log})

	if err := h.InitAll(nil); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	if err := h.StartAll(); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := h.StopAll(); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	want := []string{
		"init:device", "init:mixer",
		"start:device", "start:mixer",
		"stop:mixer", "stop:device",
	}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("Expected %v, got %v", want, log)
	}
}

func TestHubInitArgsRouted(t *testing.T) {
	var log []string
	svc := &fakeService{name: "audio", log: &log}
	h := NewHub()
	h.Register(svc)

	if err := h.InitAll(map[string][]any{"audio": {true}}); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	if !reflect.DeepEqual(svc.initArgs, []any{true}) {
		t.Errorf("Expected args [true], got %v", svc.initArgs)
	}
}

func TestHubStartRollback(t *testing.T) {
	var log []string
	h := NewHub()
	h.Register(&fakeService{name: "a", log: &log})
	h.Register(&fakeService{name: "b", deps: []string{"a"}, log: &log, startErr: errors.New("no device")})

	if err := h.InitAll(nil); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	err := h.StartAll()
	if err == nil || !strings.Contains(err.Error(), "service b start failed") {
		t.Fatalf("Expected start failure for b, got %v", err)
	}

	if got := log[len(log)-1]; got != "stop:a" {
		t.Errorf("Expected rollback to stop a, last call %q", got)
	}

	// Nothing left to stop
	log = log[:0]
	h.StopAll()
	if len(log) != 0 {
		t.Errorf("StopAll after rollback should be a no-op, got %v", log)
	}
}

func TestHubDuplicateAndMissingDeps(t *testing.T) {
	var log []string
	h := NewHub()
	if err := h.Register(&fakeService{name: "a", deps: []string{"ghost"}, log: &log}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := h.Register(&fakeService{name: "a", log: &log}); err == nil {
		t.Error("Expected duplicate registration error")
	}
	if err := h.InitAll(nil); err == nil || !strings.Contains(err.Error(), "unregistered") {
		t.Errorf("Expected missing dependency error, got %v", err)
	}
}

func TestHubCycleDetected(t *testing.T) {
	var log []string
	h := NewHub()
	h.Register(&fakeService{name: "a", deps: []string{"b"}, log: &log})
	h.Register(&fakeService{name: "b", deps: []string{"a"}, log: &log})
	if err := h.InitAll(nil); err == nil {
		t.Error("Expected circular dependency error")
	}
}

func TestHubStopAllJoinsErrors(t *testing.T) {
	var log []string
	stopErr := errors.New("stuck")
	h := NewHub()
	h.Register(&fakeService{name: "a", log: &log, stopErr: stopErr})
	h.Register(&fakeService{name: "b", log: &log})
	h.InitAll(nil)
	h.StartAll()

	err := h.StopAll()
	if !errors.Is(err, stopErr) {
		t.Fatalf("Expected joined stop error, got %v", err)
	}
	if !reflect.DeepEqual(log[len(log)-2:], []string{"stop:b", "stop:a"}) {
		t.Errorf("Every service must be stopped, got %v", log)
	}
}

func TestHubInitRollback(t *testing.T) {
	var log []string
	h := NewHub()
	h.Register(&fakeService{name: "terminal", log: &log})
	h.Register(&fakeService{name: "audio", deps: []string{"terminal"}, log: &log, initErr: errors.New("bad volume")})

	err := h.InitAll(nil)
	if err == nil || !strings.Contains(err.Error(), "service audio init failed") {
		t.Fatalf("Expected init failure for audio, got %v", err)
	}
	want := []string{"init:terminal", "init:audio", "stop:terminal"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("Expected %v, got %v", want, log)
	}
}

func TestHubStableOrderAcrossBranches(t *testing.T) {
	var log []string
	h := NewHub()
	h.Register(&fakeService{name: "audio", deps: []string{"terminal"}, log: &log})
	h.Register(&fakeService{name: "clock", log: &log})
	h.Register(&fakeService{name: "terminal", log: &log})

	if err := h.InitAll(nil); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	want := []string{"init:terminal", "init:audio", "init:clock"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("Expected %v, got %v", want, log)
	}
}

func TestHubStartBeforeInit(t *testing.T) {
	h := NewHub()
	if err := h.StartAll(); err == nil {
		t.Error("Expected error starting uninitialized hub")
	}
}
