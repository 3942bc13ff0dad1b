package hal_test

import (
	"testing"

	"github.com/gogpu/graphcore/hal"
	_ "github.com/gogpu/graphcore/hal/noop" // registers the mock backend via init()
	"github.com/gogpu/graphcore/types"
)

// stubBackend is a minimal backend implementation used only to exercise the
// registry; it never has CreateInstance called with a non-nil descriptor.
type stubBackend struct {
	variant types.Backend
}

func (s *stubBackend) Variant() types.Backend { return s.variant }

func (s *stubBackend) CreateInstance(_ *hal.InstanceDescriptor) (hal.Instance, error) {
	return nil, nil
}

func TestRegisterBackend(t *testing.T) {
	stub := &stubBackend{variant: types.BackendVulkan}
	hal.RegisterBackend(stub)

	backend, ok := hal.GetBackend(types.BackendVulkan)
	if !ok {
		t.Fatal("expected backend to be registered")
	}
	if backend.Variant() != types.BackendVulkan {
		t.Errorf("expected variant %v, got %v", types.BackendVulkan, backend.Variant())
	}
}

func TestRegisterBackend_Replacement(t *testing.T) {
	mock1 := &stubBackend{variant: types.BackendMock}
	hal.RegisterBackend(mock1)

	mock2 := &stubBackend{variant: types.BackendMock}
	hal.RegisterBackend(mock2)

	backend, ok := hal.GetBackend(types.BackendMock)
	if !ok {
		t.Fatal("expected backend to be registered")
	}
	if backend.Variant() != types.BackendMock {
		t.Errorf("expected variant %v, got %v", types.BackendMock, backend.Variant())
	}
}

func TestGetBackend(t *testing.T) {
	tests := []struct {
		name    string
		variant types.Backend
		wantOk  bool
	}{
		{
			name:    "noop backend (registered by init)",
			variant: types.BackendMock,
			wantOk:  true,
		},
		{
			name:    "unregistered backend",
			variant: types.Backend(99),
			wantOk:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, ok := hal.GetBackend(tt.variant)
			if ok != tt.wantOk {
				t.Errorf("GetBackend() ok = %v, want %v", ok, tt.wantOk)
			}
			if ok && backend == nil {
				t.Error("GetBackend() returned ok=true but backend is nil")
			}
			if ok && backend.Variant() != tt.variant {
				t.Errorf("backend.Variant() = %v, want %v", backend.Variant(), tt.variant)
			}
		})
	}
}

func TestAvailableBackends(t *testing.T) {
	backends := hal.AvailableBackends()
	if len(backends) == 0 {
		t.Fatal("expected at least one backend (noop)")
	}

	found := false
	for _, b := range backends {
		if b == types.BackendMock {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected BackendMock (noop) to be in available backends")
	}
}

func TestAvailableBackends_AfterRegistration(t *testing.T) {
	initialCount := len(hal.AvailableBackends())

	hal.RegisterBackend(&stubBackend{variant: types.BackendVulkan})

	updatedBackends := hal.AvailableBackends()
	if len(updatedBackends) < initialCount {
		t.Errorf("expected at least %d backends after registration, got %d", initialCount, len(updatedBackends))
	}

	found := false
	for _, b := range updatedBackends {
		if b == types.BackendVulkan {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected newly registered backend to be in available backends")
	}
}

func TestConcurrentAccess(t *testing.T) {
	done := make(chan bool, 2)

	go func() {
		for i := 0; i < 100; i++ {
			hal.RegisterBackend(&stubBackend{variant: types.Backend(i % 3)})
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			_ = hal.AvailableBackends()
			_, _ = hal.GetBackend(types.Backend(i % 3))
		}
		done <- true
	}()

	<-done
	<-done
}

func TestNoopBackendRegistered(t *testing.T) {
	backend, ok := hal.GetBackend(types.BackendMock)
	if !ok {
		t.Fatal("noop backend should be registered automatically")
	}
	if backend.Variant() != types.BackendMock {
		t.Errorf("expected variant BackendMock, got %v", backend.Variant())
	}

	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		t.Errorf("expected CreateInstance to succeed for noop backend, got error: %v", err)
	}
	if instance != nil {
		instance.Destroy()
	}
}
