package core

import (
	"errors"
	"testing"
)

func newTestIssuerRegistry() (*IssuerRegistry, *InMemoryState) {
	st := NewInMemoryState()
	return NewIssuerRegistry(st, st, NopBus{}, DefaultLimits), st
}

func TestCreateIssuerSuccess(t *testing.T) {
	r, st := newTestIssuerRegistry()
	var origin Principal
	origin[0] = 1
	st.Credit(origin, DefaultLimits.IssuerRegistryDeposit)

	hash, err := r.CreateIssuer(origin, []byte("acme"), []Principal{origin})
	if err != nil {
		t.Fatalf("CreateIssuer: %v", err)
	}
	issuer, err := r.Get(hash)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(issuer.Name) != "acme" {
		t.Errorf("Name = %q, want acme", issuer.Name)
	}
	if !issuer.HasController(origin) {
		t.Error("origin should be a controller")
	}
}

func TestCreateIssuerDuplicateName(t *testing.T) {
	r, st := newTestIssuerRegistry()
	var origin Principal
	origin[0] = 1
	st.Credit(origin, 2*DefaultLimits.IssuerRegistryDeposit)

	if _, err := r.CreateIssuer(origin, []byte("acme"), []Principal{origin}); err != nil {
		t.Fatalf("first CreateIssuer: %v", err)
	}
	if _, err := r.CreateIssuer(origin, []byte("acme"), []Principal{origin}); !errors.Is(err, ErrIssuerAlreadyExists) {
		t.Fatalf("second CreateIssuer = %v, want ErrIssuerAlreadyExists", err)
	}
}

func TestCreateIssuerInsufficientBalance(t *testing.T) {
	r, _ := newTestIssuerRegistry()
	var origin Principal
	if _, err := r.CreateIssuer(origin, []byte("acme"), []Principal{origin}); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("CreateIssuer with no balance = %v, want ErrInsufficientBalance", err)
	}
}

func TestCreateIssuerTooManyControllers(t *testing.T) {
	r, st := newTestIssuerRegistry()
	var origin Principal
	origin[0] = 1
	st.Credit(origin, DefaultLimits.IssuerRegistryDeposit)

	controllers := make([]Principal, DefaultLimits.MaxControllers+1)
	for i := range controllers {
		controllers[i][0] = byte(i + 1)
	}
	if _, err := r.CreateIssuer(origin, []byte("acme"), controllers); !errors.Is(err, ErrTooManyControllers) {
		t.Fatalf("CreateIssuer = %v, want ErrTooManyControllers", err)
	}
}

func TestCreateIssuerDedupsControllers(t *testing.T) {
	r, st := newTestIssuerRegistry()
	var origin Principal
	origin[0] = 1
	st.Credit(origin, DefaultLimits.IssuerRegistryDeposit)

	hash, err := r.CreateIssuer(origin, []byte("acme"), []Principal{origin, origin, origin})
	if err != nil {
		t.Fatalf("CreateIssuer: %v", err)
	}
	issuer, _ := r.Get(hash)
	if len(issuer.Controllers) != 1 {
		t.Errorf("Controllers = %v, want deduped to length 1", issuer.Controllers)
	}
}

func TestEditControllersRequiresAuthorization(t *testing.T) {
	r, st := newTestIssuerRegistry()
	var origin, stranger Principal
	origin[0] = 1
	stranger[0] = 2
	st.Credit(origin, DefaultLimits.IssuerRegistryDeposit)

	hash, _ := r.CreateIssuer(origin, []byte("acme"), []Principal{origin})
	if err := r.EditControllers(stranger, hash, []Principal{stranger}); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("EditControllers by stranger = %v, want ErrNotAuthorized", err)
	}
}

func TestEditControllersReplacesSet(t *testing.T) {
	r, st := newTestIssuerRegistry()
	var origin, newCtrl Principal
	origin[0] = 1
	newCtrl[0] = 2
	st.Credit(origin, DefaultLimits.IssuerRegistryDeposit)

	hash, _ := r.CreateIssuer(origin, []byte("acme"), []Principal{origin})
	if err := r.EditControllers(origin, hash, []Principal{newCtrl}); err != nil {
		t.Fatalf("EditControllers: %v", err)
	}
	issuer, _ := r.Get(hash)
	if issuer.HasController(origin) {
		t.Error("origin should have been replaced out of the controller set")
	}
	if !issuer.HasController(newCtrl) {
		t.Error("newCtrl should now be a controller")
	}
}

func TestGetNotFound(t *testing.T) {
	r, _ := newTestIssuerRegistry()
	if _, err := r.Get(Hash{}); !errors.Is(err, ErrIssuerNotFound) {
		t.Fatalf("Get on empty registry = %v, want ErrIssuerNotFound", err)
	}
}
