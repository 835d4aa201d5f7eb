package terminal

import (
	"reflect"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/marquee/service"
)

var _ service.Service = (*TerminalService)(nil)

func TestServiceBackendSelection(t *testing.T) {
	tests := []struct {
		name    string
		args    []any
		wantErr string
		check   func(Terminal) bool
	}{
		{"default ansi", nil, "", func(term Terminal) bool { _, ok := term.(*termImpl); return ok }},
		{"ansi", []any{BackendANSI}, "", func(term Terminal) bool { _, ok := term.(*termImpl); return ok }},
		{"tcell", []any{BackendTcell}, "", func(term Terminal) bool { _, ok := term.(*tcellTerm); return ok }},
		{"unknown", []any{"curses"}, "unknown terminal backend", nil},
		{"wrong type", []any{42}, "unexpected init arg", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService()
			err := s.Init(tt.args...)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			if !tt.check(s.Terminal()) {
				t.Errorf("Unexpected terminal type %T", s.Terminal())
			}
		})
	}
}

func TestServiceStartBeforeInit(t *testing.T) {
	if err := NewService().Start(); err == nil {
		t.Error("Expected error starting without a terminal")
	}
}

// finiRecorder logs Fini into a shared call log
type finiRecorder struct {
	Terminal
	log *[]string
}

func (f finiRecorder) Fini() {
	*f.log = append(*f.log, "fini:terminal")
	f.Terminal.Fini()
}

type dependentService struct {
	log *[]string
}

func (d *dependentService) Name() string           { return "audio" }
func (d *dependentService) Dependencies() []string { return []string{ServiceName} }
func (d *dependentService) Init(...any) error      { return nil }
func (d *dependentService) Start() error           { return nil }
func (d *dependentService) Stop() error {
	*d.log = append(*d.log, "stop:audio")
	return nil
}

// TestServiceLifecycleInHub runs the terminal through the hub ahead of a dependent service
func TestServiceLifecycleInHub(t *testing.T) {
	var log []string
	term := finiRecorder{Terminal: NewTcell(tcell.NewSimulationScreen("UTF-8")), log: &log}
	termSvc := NewService()

	hub := service.NewHub()
	hub.Register(&dependentService{log: &log})
	hub.Register(termSvc)
	if err := hub.InitAll(map[string][]any{ServiceName: {term}}); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	if err := hub.StartAll(); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if termSvc.Terminal() != Terminal(term) {
		t.Fatal("Expected the injected terminal")
	}

	if err := hub.StopAll(); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	want := []string{"stop:audio", "fini:terminal"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("Expected %v, got %v", want, log)
	}
	if ev := nextEvent(t, term); ev.Type != EventClosed {
		t.Errorf("Expected terminal restored after StopAll, got %+v", ev)
	}

	// A second stop leaves the terminal alone
	termSvc.Stop()
	hub.StopAll()
	if len(log) != len(want) {
		t.Errorf("Expected no further calls, got %v", log)
	}
}
