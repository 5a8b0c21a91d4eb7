package store

import (
	"testing"

	"pressfolio/internal/models"
)

func TestCategoryStoreCRUD(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	slugs := []string{"test-cat-parent", "test-cat-child", "test-cat-renamed"}
	cleanCategories(t, db, slugs...)
	t.Cleanup(func() { cleanCategories(t, db, slugs...) })

	parent, err := s.Create(&models.Category{
		Name: "Test Cat Parent",
		Slug: "test-cat-parent",
		Icon: "Cpu",
	})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	if parent.ID.String() == "" {
		t.Fatal("expected generated ID")
	}

	child, err := s.Create(&models.Category{
		Name:     "Test Cat Child",
		Slug:     "test-cat-child",
		ParentID: &parent.ID,
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	found, err := s.FindBySlug("test-cat-child")
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if found == nil || found.ParentID == nil || *found.ParentID != parent.ID {
		t.Fatal("child should reference parent")
	}

	child.Name = "Test Cat Renamed"
	child.Slug = "test-cat-renamed"
	if err := s.Update(child); err != nil {
		t.Fatalf("update child: %v", err)
	}
	found, err = s.FindByID(child.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if found.Name != "Test Cat Renamed" {
		t.Errorf("update not persisted, got name %q", found.Name)
	}

	exists, err := s.SlugExists("test-cat-renamed", nil)
	if err != nil {
		t.Fatalf("slug exists: %v", err)
	}
	if !exists {
		t.Error("slug should exist")
	}
	exists, err = s.SlugExists("test-cat-renamed", &child.ID)
	if err != nil {
		t.Fatalf("slug exists with exclude: %v", err)
	}
	if exists {
		t.Error("slug should not count its own row")
	}

	if err := s.Delete(child.ID); err != nil {
		t.Fatalf("delete child: %v", err)
	}
	found, err = s.FindByID(child.ID)
	if err != nil {
		t.Fatalf("find deleted: %v", err)
	}
	if found != nil {
		t.Error("deleted category still found")
	}
}

// Deleting a parent must succeed and leave its children in place with a
// dangling parent reference. The tree builder then drops them from the
// rendered hierarchy.
func TestCategoryStoreDeleteParentOrphansChildren(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	slugs := []string{"test-orphan-parent", "test-orphan-child"}
	cleanCategories(t, db, slugs...)
	t.Cleanup(func() { cleanCategories(t, db, slugs...) })

	parent, err := s.Create(&models.Category{Name: "Test Orphan Parent", Slug: "test-orphan-parent"})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	child, err := s.Create(&models.Category{
		Name:     "Test Orphan Child",
		Slug:     "test-orphan-child",
		ParentID: &parent.ID,
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	if err := s.Delete(parent.ID); err != nil {
		t.Fatalf("delete parent should succeed: %v", err)
	}

	found, err := s.FindByID(child.ID)
	if err != nil {
		t.Fatalf("find child: %v", err)
	}
	if found == nil {
		t.Fatal("child must survive parent deletion")
	}
	if found.ParentID == nil || *found.ParentID != parent.ID {
		t.Fatal("child must keep its now-dangling parent reference")
	}

	// The orphan disappears from the built tree.
	flat, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, c := range FlattenTree(BuildTree(flat)) {
		if c.ID == child.ID {
			t.Error("orphaned child should not appear in the built tree")
		}
	}
}

func TestCategoryStoreTree(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	slugs := []string{"test-tree-root", "test-tree-leaf"}
	cleanCategories(t, db, slugs...)
	t.Cleanup(func() { cleanCategories(t, db, slugs...) })

	root, err := s.Create(&models.Category{Name: "Test Tree Root", Slug: "test-tree-root"})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	if _, err := s.Create(&models.Category{
		Name:     "Test Tree Leaf",
		Slug:     "test-tree-leaf",
		ParentID: &root.ID,
	}); err != nil {
		t.Fatalf("create leaf: %v", err)
	}

	tree, err := s.Tree()
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	var foundRoot *models.Category
	for i := range tree {
		if tree[i].ID == root.ID {
			foundRoot = &tree[i]
		}
	}
	if foundRoot == nil {
		t.Fatal("root not in tree")
	}
	if len(foundRoot.Children) != 1 || foundRoot.Children[0].Slug != "test-tree-leaf" {
		t.Fatalf("expected one leaf child, got %+v", foundRoot.Children)
	}
	if foundRoot.Children[0].Depth != 1 {
		t.Errorf("leaf depth = %d, want 1", foundRoot.Children[0].Depth)
	}
}
