package backend

import (
	"context"
	"testing"

	"github.com/ssmithers/aidebate/internal/core"
)

func clientCatalog() Catalog {
	return Catalog{
		"local-1":  {ID: "glm-4.7-flash", Class: core.ClassLocal, Temperature: 0.3, MaxTokens: 2048},
		"hosted-1": {ID: "claude-sonnet-4-5", Class: core.ClassHosted, Temperature: 0.3, MaxTokens: 2048},
	}
}

func TestCatalogAliases(t *testing.T) {
	aliases := clientCatalog().Aliases()
	if len(aliases) != 2 {
		t.Fatalf("aliases: got %d, want 2", len(aliases))
	}
	if aliases[0] != "hosted-1" || aliases[1] != "local-1" {
		t.Errorf("aliases not sorted: got %v", aliases)
	}
}

func TestClientComplete(t *testing.T) {
	ctx := context.Background()
	messages := []core.Message{{Role: core.RoleUser, Content: "hi"}}

	t.Run("RoutesLocalAndHosted", func(t *testing.T) {
		local := &MockBackend{Responses: []string{"from local"}}
		hosted := &MockBackend{Responses: []string{"from hosted"}}
		client := NewClient(clientCatalog(), local, hosted)

		result, err := client.Complete(ctx, "local-1", messages, 0.3, 100)
		if err != nil {
			t.Fatalf("local call failed: %v", err)
		}
		if result.Content != "from local" {
			t.Errorf("content: got %q", result.Content)
		}

		result, err = client.Complete(ctx, "hosted-1", messages, 0.3, 100)
		if err != nil {
			t.Fatalf("hosted call failed: %v", err)
		}
		if result.Content != "from hosted" {
			t.Errorf("content: got %q", result.Content)
		}

		if local.Calls != 1 || hosted.Calls != 1 {
			t.Errorf("calls: local %d, hosted %d", local.Calls, hosted.Calls)
		}
	})

	t.Run("UnknownAlias", func(t *testing.T) {
		client := NewClient(clientCatalog(), &MockBackend{}, nil)
		if _, err := client.Complete(ctx, "nope", messages, 0.3, 100); err == nil {
			t.Fatal("expected error for unknown alias")
		}
	})

	t.Run("MissingHostedBackend", func(t *testing.T) {
		client := NewClient(clientCatalog(), &MockBackend{}, nil)
		if _, err := client.Complete(ctx, "hosted-1", messages, 0.3, 100); err == nil {
			t.Fatal("expected error with no hosted backend configured")
		}
	})
}

func TestMergeDetection(t *testing.T) {
	t.Run("ExistingModelKeepsAlias", func(t *testing.T) {
		catalog := clientCatalog()
		alias, added := MergeDetection(catalog, Detection{ModelID: "glm-4.7-flash", Name: "GLM"})
		if added {
			t.Error("catalog should not change for a known model id")
		}
		if alias != "local-1" {
			t.Errorf("alias: got %s, want local-1", alias)
		}
	})

	t.Run("NewModelAdded", func(t *testing.T) {
		catalog := clientCatalog()
		alias, added := MergeDetection(catalog, Detection{ModelID: "mistralai/devstral-small-2", Name: "Devstral"})
		if !added {
			t.Fatal("expected catalog to change")
		}
		if alias != "devstral" {
			t.Errorf("alias: got %s, want devstral", alias)
		}

		mc, ok := catalog.Lookup("devstral")
		if !ok {
			t.Fatal("detected model missing from catalog")
		}
		if mc.ID != "mistralai/devstral-small-2" {
			t.Errorf("id: got %s", mc.ID)
		}
		if mc.Class != core.ClassLocal {
			t.Errorf("class: got %s, want local", mc.Class)
		}
	})

	t.Run("AliasCollisionSuffixed", func(t *testing.T) {
		catalog := Catalog{
			"glm": {ID: "other-model", Class: core.ClassLocal},
		}
		alias, added := MergeDetection(catalog, Detection{ModelID: "glm-4.7-flash", Name: "GLM"})
		if !added {
			t.Fatal("expected catalog to change")
		}
		if alias != "glmx" {
			t.Errorf("alias: got %s, want glmx", alias)
		}
	})
}
