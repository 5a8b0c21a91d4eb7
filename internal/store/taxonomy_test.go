package store

import (
	"testing"
)

func TestTagStoreCRUD(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)

	cleanTaxonomy(t, db, "tags", "test-tag", "test-tag-renamed")
	t.Cleanup(func() { cleanTaxonomy(t, db, "tags", "test-tag", "test-tag-renamed") })

	tag, err := s.Create("Test Tag", "test-tag")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := s.FindBySlug("test-tag")
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if found == nil || found.ID != tag.ID {
		t.Fatal("tag not found by slug")
	}

	if err := s.Update(tag.ID, "Test Tag Renamed", "test-tag-renamed"); err != nil {
		t.Fatalf("update: %v", err)
	}
	found, err = s.FindByID(tag.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if found.Name != "Test Tag Renamed" {
		t.Errorf("update not persisted, got %q", found.Name)
	}

	exists, err := s.SlugExists("test-tag-renamed", &tag.ID)
	if err != nil {
		t.Fatalf("slug exists: %v", err)
	}
	if exists {
		t.Error("slug should not count its own row")
	}

	if err := s.Delete(tag.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	found, err = s.FindByID(tag.ID)
	if err != nil {
		t.Fatalf("find deleted: %v", err)
	}
	if found != nil {
		t.Error("deleted tag still found")
	}
}

func TestTopicStoreCRUD(t *testing.T) {
	db := testDB(t)
	s := NewTopicStore(db)

	cleanTaxonomy(t, db, "topics", "test-topic")
	t.Cleanup(func() { cleanTaxonomy(t, db, "topics", "test-topic") })

	desc := "Long-running interest area"
	topic, err := s.Create("Test Topic", "test-topic", desc)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if topic.Description != desc {
		t.Error("description not persisted")
	}

	found, err := s.FindBySlug("test-topic")
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if found == nil {
		t.Fatal("topic not found")
	}

	if err := s.Update(topic.ID, "Test Topic", "test-topic", ""); err != nil {
		t.Fatalf("update: %v", err)
	}
	found, err = s.FindByID(topic.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if found.Description != "" {
		t.Error("description should be cleared")
	}

	if err := s.Delete(topic.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestSeriesStoreCRUDAndSlugCheck(t *testing.T) {
	db := testDB(t)
	s := NewSeriesStore(db)

	cleanTaxonomy(t, db, "series", "test-series-crud")
	t.Cleanup(func() { cleanTaxonomy(t, db, "series", "test-series-crud") })

	sr, err := s.Create("Test Series CRUD", "test-series-crud", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	exists, err := s.SlugExists("test-series-crud", nil)
	if err != nil {
		t.Fatalf("slug exists: %v", err)
	}
	if !exists {
		t.Error("slug should exist")
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var present bool
	for _, item := range list {
		if item.ID == sr.ID {
			present = true
			if item.PostCount != 0 {
				t.Errorf("fresh series post count = %d, want 0", item.PostCount)
			}
		}
	}
	if !present {
		t.Error("created series missing from list")
	}

	if err := s.Delete(sr.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	found, err := s.FindByID(sr.ID)
	if err != nil {
		t.Fatalf("find deleted: %v", err)
	}
	if found != nil {
		t.Error("deleted series still found")
	}
}
