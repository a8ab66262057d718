package evilclient

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
)

func TestBuilderBuild(t *testing.T) {
	schema, err := NewSchema("CatsClient").
		Option("token", NonEmptyString).
		Option("version", ToInt, Default(1)).
		Option("nickname", ToString, Optional()).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if schema.Name() != "CatsClient" {
		t.Errorf("Name() = %q, expected 'CatsClient'", schema.Name())
	}

	options := schema.Options()
	if len(options) != 3 {
		t.Fatalf("Options() returned %d specs, expected 3", len(options))
	}

	names := []string{options[0].Name, options[1].Name, options[2].Name}
	expected := []string{"token", "version", "nickname"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("Option order = %v, expected %v", names, expected)
	}

	if !options[0].Required {
		t.Error("Plain option should default to required")
	}
	if options[1].Required {
		t.Error("Option with a default should not be required")
	}
	if options[2].Required {
		t.Error("Optional option should not be required")
	}
}

func TestBuilderNormalizesNames(t *testing.T) {
	schema, err := NewSchema("CatsClient").
		Option("api-key", ToString).
		Option("  retry count ", ToInt, Default(3)).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	options := schema.Options()
	if options[0].Name != "api_key" {
		t.Errorf("Name = %q, expected 'api_key'", options[0].Name)
	}
	if options[0].As != "api_key" {
		t.Errorf("As = %q, expected 'api_key'", options[0].As)
	}
	if options[1].Name != "retry_count" {
		t.Errorf("Name = %q, expected 'retry_count'", options[1].Name)
	}
}

func TestBuilderRejectsReservedNames(t *testing.T) {
	reserved := []string{"options", "logger", "datetime", "schema", "string", "get", "memo", "validate", "build"}

	for _, name := range reserved {
		_, err := NewSchema("CatsClient").Option(name, ToString).Build()
		if err == nil {
			t.Errorf("Build() accepted reserved option name %q", name)
			continue
		}
		if !errors.Is(err, ErrReservedName) {
			t.Errorf("%q: expected errors.Is(err, ErrReservedName), got %v", name, err)
		}
		if !IsReservedNameError(err) {
			t.Errorf("%q: expected a reserved-name error, got %v", name, err)
		}
	}
}

func TestBuilderRejectsReservedMemoNames(t *testing.T) {
	compute := func(*Settings) (any, error) { return nil, nil }

	_, err := NewSchema("CatsClient").Let("options", compute).Build()
	if !IsReservedNameError(err) {
		t.Errorf("Expected a reserved-name error for memo 'options', got %v", err)
	}
}

func TestBuilderRejectsReservedAlias(t *testing.T) {
	_, err := NewSchema("CatsClient").Option("token", ToString, As("logger")).Build()
	if !IsReservedNameError(err) {
		t.Errorf("Expected a reserved-name error for alias 'logger', got %v", err)
	}
}

func TestWithReservedNames(t *testing.T) {
	_, err := NewSchema("CatsClient", WithReservedNames("internal")).
		Option("internal", ToString).
		Build()
	if !IsReservedNameError(err) {
		t.Errorf("Expected a reserved-name error for extended name 'internal', got %v", err)
	}

	// The extension must not leak into unrelated schemas
	if _, err := NewSchema("Other").Option("internal", ToString).Build(); err != nil {
		t.Errorf("Unrelated schema rejected 'internal': %v", err)
	}
}

func TestBuilderRejectsInvalidIdentifiers(t *testing.T) {
	invalid := []string{"", "   ", "1token", "to.ken", "to/ken", "to!ken"}

	for _, name := range invalid {
		_, err := NewSchema("CatsClient").Option(name, ToString).Build()
		if !IsSchemaError(err) {
			t.Errorf("%q: expected a schema error, got %v", name, err)
		}
	}
}

func TestBuilderRejectsDuplicateExposedNames(t *testing.T) {
	_, err := NewSchema("CatsClient").
		Option("token", ToString).
		Option("secret", ToString, As("token")).
		Build()
	if !IsSchemaError(err) {
		t.Errorf("Expected a schema error for duplicate exposed name, got %v", err)
	}
	if !strings.Contains(err.Error(), "token") {
		t.Errorf("Error should name the colliding identifier, got %v", err)
	}
}

func TestBuilderRejectsMemoOptionCollision(t *testing.T) {
	compute := func(*Settings) (any, error) { return nil, nil }

	_, err := NewSchema("CatsClient").
		Option("token", ToString).
		Let("token", compute).
		Build()
	if !IsSchemaError(err) {
		t.Errorf("Expected a schema error for memo/option collision, got %v", err)
	}
}

func TestBuilderRejectsNilBodies(t *testing.T) {
	_, err := NewSchema("CatsClient").Let("auth", nil).Build()
	if !IsSchemaError(err) {
		t.Errorf("Expected a schema error for nil compute, got %v", err)
	}

	_, err = NewSchema("CatsClient").
		Option("token", ToString).
		Validate("token", nil).
		Build()
	if !IsSchemaError(err) {
		t.Errorf("Expected a schema error for nil check, got %v", err)
	}
}

func TestBuilderRejectsUnknownValidatorTarget(t *testing.T) {
	check := func(*Settings) error { return nil }

	_, err := NewSchema("CatsClient").
		Option("token", ToString).
		Validate("missing", check).
		Build()
	if !IsSchemaError(err) {
		t.Errorf("Expected a schema error for unknown validator target, got %v", err)
	}
}

func TestBuilderValidatorTargetsAlias(t *testing.T) {
	check := func(*Settings) error { return nil }

	_, err := NewSchema("CatsClient").
		Option("token", ToString, As("auth")).
		Validate("auth", check).
		Build()
	if err != nil {
		t.Errorf("Validator should find the exposed name, got %v", err)
	}
}

func TestBuilderRejectsEmptySchemaName(t *testing.T) {
	_, err := NewSchema("   ").Option("token", ToString).Build()
	if !IsSchemaError(err) {
		t.Errorf("Expected a schema error for empty schema name, got %v", err)
	}
}

func TestBuildAggregatesProblems(t *testing.T) {
	_, err := NewSchema("CatsClient").
		Option("options", ToString).
		Option("1bad", ToString).
		Build()
	if err == nil {
		t.Fatal("Build() should fail")
	}

	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("Expected an aggregated error, got %T", err)
	}
	if len(merr.Errors) != 2 {
		t.Errorf("Expected 2 aggregated problems, got %d: %v", len(merr.Errors), merr)
	}

	// Both kinds stay detectable through the aggregate
	if !IsReservedNameError(err) {
		t.Errorf("Aggregated error should contain the reserved-name problem: %v", err)
	}
}

func TestSchemaInheritance(t *testing.T) {
	base := NewSchema("Base").
		Option("token", NonEmptyString).
		Option("version", ToInt, Default(1)).
		MustBuild()

	derived, err := NewSchema("Derived").
		Extend(base).
		Option("region", ToString, Default("eu")).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	options := derived.Options()
	names := make([]string, len(options))
	for i, spec := range options {
		names[i] = spec.Name
	}
	expected := []string{"token", "version", "region"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("Derived option order = %v, expected %v", names, expected)
	}

	if derived.Parent() != base {
		t.Error("Parent() should return the base schema")
	}
}

func TestSchemaInheritanceOverrideKeepsPosition(t *testing.T) {
	base := NewSchema("Base").
		Option("token", NonEmptyString).
		Option("version", ToInt, Default(1)).
		MustBuild()

	derived := NewSchema("Derived").
		Extend(base).
		Option("token", ToString, Default("anonymous")).
		MustBuild()

	options := derived.Options()
	if len(options) != 2 {
		t.Fatalf("Derived has %d options, expected 2 (override, not append)", len(options))
	}
	if options[0].Name != "token" {
		t.Errorf("Overridden option moved: first option is %q", options[0].Name)
	}
	if options[0].Required {
		t.Error("Override should replace the spec: token is still required")
	}

	// The base schema is not affected by the override
	if !base.Options()[0].Required {
		t.Error("Base schema was mutated by the derived declaration")
	}
}

func TestSchemaInheritanceValidatorOrder(t *testing.T) {
	check := func(*Settings) error { return nil }

	base := NewSchema("Base").
		Option("token", ToString).
		Validate("token", check).
		MustBuild()

	derived := NewSchema("Derived").
		Extend(base).
		Option("region", ToString, Default("eu")).
		Validate("region", check).
		Validate("token", check).
		MustBuild()

	validators := derived.Validators()
	targets := make([]string, len(validators))
	for i, v := range validators {
		targets[i] = v.Option
	}
	expected := []string{"token", "region", "token"}
	if !reflect.DeepEqual(targets, expected) {
		t.Errorf("Validator order = %v, expected inherited first: %v", targets, expected)
	}
}

func TestSchemaInheritedReservedNames(t *testing.T) {
	base := NewSchema("Base", WithReservedNames("internal")).MustBuild()

	_, err := NewSchema("Derived").
		Extend(base).
		Option("internal", ToString).
		Build()
	if !IsReservedNameError(err) {
		t.Errorf("Derived schema should inherit reserved names, got %v", err)
	}
}

func TestMustBuild(t *testing.T) {
	schema := NewSchema("CatsClient").Option("token", ToString).MustBuild()
	if schema == nil {
		t.Fatal("MustBuild() returned nil")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustBuild() should panic on a broken declaration")
		}
	}()
	NewSchema("CatsClient").Option("options", ToString).MustBuild()
}

func TestSchemaReservedNames(t *testing.T) {
	schema := NewSchema("CatsClient", WithReservedNames("zebra", "alpha")).MustBuild()

	names := schema.ReservedNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("ReservedNames() not sorted: %v", names)
		}
	}

	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	for _, want := range []string{"options", "logger", "zebra", "alpha"} {
		if !set[want] {
			t.Errorf("ReservedNames() missing %q: %v", want, names)
		}
	}
}

func TestSchemaAccessorsReturnCopies(t *testing.T) {
	compute := func(*Settings) (any, error) { return "x", nil }
	schema := NewSchema("CatsClient").
		Option("token", ToString).
		Let("auth", compute).
		MustBuild()

	schema.Options()[0].Name = "mutated"
	schema.Memos()[0].Name = "mutated"

	if schema.Options()[0].Name != "token" {
		t.Error("Options() must return a copy")
	}
	if schema.Memos()[0].Name != "auth" {
		t.Error("Memos() must return a copy")
	}
}

func TestLetDeclarationOrder(t *testing.T) {
	schema := NewSchema("CatsClient").
		Let("first", func(*Settings) (any, error) { return 1, nil }).
		Let("second", func(*Settings) (any, error) { return 2, nil }).
		MustBuild()

	memos := schema.Memos()
	if len(memos) != 2 || memos[0].Name != "first" || memos[1].Name != "second" {
		t.Errorf("Memo order wrong: %v", memos)
	}
}

func ExampleBuilder_MustBuild() {
	schema := NewSchema("CatsClient").
		Option("token", NonEmptyString).
		Option("version", ToInt, Default(1)).
		MustBuild()

	fmt.Println(schema.Name(), len(schema.Options()))
	// Output: CatsClient 2
}
