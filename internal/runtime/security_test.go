package runtime

import "testing"

func TestCheckPropertyAccessBlocksForbiddenNames(t *testing.T) {
	for _, name := range []string{"__proto__", "constructor", "prototype"} {
		if err := CheckPropertyAccess(nil, name); err == nil {
			t.Errorf("CheckPropertyAccess(%q) should be rejected", name)
		}
	}
	if err := CheckPropertyAccess(nil, "length"); err != nil {
		t.Errorf("CheckPropertyAccess(length) should be allowed, got %v", err)
	}
}

func TestGuardEnterAllowsConcurrentEntryByDefault(t *testing.T) {
	g := NewGuard(ModeSync)
	release, err := g.Enter()
	if err != nil {
		t.Fatalf("first Enter() should succeed, got %v", err)
	}
	release2, err := g.Enter()
	if err != nil {
		t.Fatalf("second concurrent Enter() should succeed without Strict, got %v", err)
	}
	release()
	release2()
}

func TestGuardEnterIsExclusiveWhenStrict(t *testing.T) {
	g := NewGuard(ModeSync)
	g.Strict = true
	release, err := g.Enter()
	if err != nil {
		t.Fatalf("first Enter() should succeed, got %v", err)
	}
	if _, err := g.Enter(); err == nil {
		t.Fatal("second concurrent Enter() should fail while the first is in flight under Strict")
	}
	release()
	release2, err := g.Enter()
	if err != nil {
		t.Fatalf("Enter() after release should succeed, got %v", err)
	}
	release2()
}

func TestGuardEnterModeSwitchesMode(t *testing.T) {
	g := NewGuard(ModeSync)
	release, err := g.EnterMode(ModeAsync)
	if err != nil {
		t.Fatalf("EnterMode() unexpected error: %v", err)
	}
	if g.Mode() != ModeAsync {
		t.Errorf("Mode() = %v, want ModeAsync", g.Mode())
	}
	release()
}

func TestGuardCheckAsyncCallBlockedInSyncMode(t *testing.T) {
	g := NewGuard(ModeSync)
	if err := g.CheckAsyncCall(nil); err == nil {
		t.Fatal("CheckAsyncCall should fail in sync mode")
	}

	g2 := NewGuard(ModeAsync)
	if err := g2.CheckAsyncCall(nil); err != nil {
		t.Errorf("CheckAsyncCall should succeed in async mode, got %v", err)
	}
}

func TestGuardCheckAsyncGeneratorBlockedInSyncMode(t *testing.T) {
	g := NewGuard(ModeSync)
	if err := g.CheckAsyncGenerator(nil); err == nil {
		t.Fatal("CheckAsyncGenerator should fail in sync mode")
	}
}

func TestCheckHostFunctionIntrospectionAlwaysFails(t *testing.T) {
	if err := CheckHostFunctionIntrospection(nil); err == nil {
		t.Fatal("CheckHostFunctionIntrospection should always return an error")
	}
}
