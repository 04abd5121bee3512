// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/evidence-engine/internal/aggregate"
	"github.com/pdiddy/evidence-engine/internal/store"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

func storedRun(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "evidence.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	diseases := aggregate.NewTable()
	diseases.Add("melanoma", "1")
	result := &aggregate.Result{
		Mode: aggregate.VariantMode,
		Entities: []*aggregate.EntityEvidence{{
			Entity:   types.Entity{Kind: types.EntityVariant, Name: "BRAF:V600E"},
			Count:    1,
			PMIDs:    []string{"1"},
			Diseases: diseases,
		}},
		ArticleOrder: []string{"1"},
		Articles: map[string]*types.Article{
			"1": {PMID: "1", Journal: "Nat Genet", Title: "kinase activation", Diseases: []string{"melanoma"}},
		},
	}
	if err := s.SaveRun(context.Background(), "run-1", result); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	return s
}

func TestWriteRunsList(t *testing.T) {
	s := storedRun(t)

	var out bytes.Buffer
	if err := writeRunsList(context.Background(), s, &out); err != nil {
		t.Fatalf("writeRunsList: %v", err)
	}
	if !strings.Contains(out.String(), "run-1") || !strings.Contains(out.String(), "variant") {
		t.Errorf("listing missing run row, got %q", out.String())
	}
}

func TestWriteRunAssociations(t *testing.T) {
	s := storedRun(t)

	var out bytes.Buffer
	if err := writeRunAssociations(context.Background(), s, &out, "run-1", "disease"); err != nil {
		t.Fatalf("writeRunAssociations: %v", err)
	}
	if !strings.Contains(out.String(), "BRAF:V600E: melanoma (1): 1") {
		t.Errorf("unexpected association output %q", out.String())
	}

	if err := writeRunAssociations(context.Background(), s, &out, "run-1", "gene"); err == nil {
		t.Error("expected an error for a kind with no stored rows")
	}
}

func TestWriteStoredArticle(t *testing.T) {
	s := storedRun(t)

	var out bytes.Buffer
	if err := writeStoredArticle(context.Background(), s, &out, "1"); err != nil {
		t.Fatalf("writeStoredArticle: %v", err)
	}
	if !strings.Contains(out.String(), "Nat Genet") {
		t.Errorf("article output missing journal, got %q", out.String())
	}

	if err := writeStoredArticle(context.Background(), s, &out, "999"); err == nil {
		t.Error("expected an error for a PMID that is not stored")
	}
}
