package analyzers

import "testing"

func TestSet_UsesConfiguredTools(t *testing.T) {
	set := Set(map[Category]string{
		CategoryNaming:   "my-custom-linter",
		CategorySecurity: "bandit",
	})

	if len(set) != 2 {
		t.Fatalf("got %d analyzers, want 2", len(set))
	}
	if set[0].Category() != CategoryNaming || set[0].Tool() != "my-custom-linter" {
		t.Errorf("first analyzer = %s/%s, want naming_convention/my-custom-linter",
			set[0].Category(), set[0].Tool())
	}
	if set[1].Category() != CategorySecurity || set[1].Tool() != "bandit" {
		t.Errorf("second analyzer = %s/%s", set[1].Category(), set[1].Tool())
	}
}

func TestSet_SkipsDisabledCategories(t *testing.T) {
	set := Set(map[Category]string{
		CategoryNaming:     "flake8",
		CategoryComplexity: "none",
		CategorySecurity:   "",
	})

	if len(set) != 1 {
		t.Fatalf("got %d analyzers, want 1", len(set))
	}
	if set[0].Category() != CategoryNaming {
		t.Errorf("kept analyzer = %s", set[0].Category())
	}
}

func TestSet_FollowsDeclaredOrder(t *testing.T) {
	set := Set(map[Category]string{
		CategorySecurity:   "bandit",
		CategoryNaming:     "flake8",
		CategoryComplexity: "radon",
	})

	want := []Category{CategoryNaming, CategoryComplexity, CategorySecurity}
	for i, cat := range want {
		if set[i].Category() != cat {
			t.Errorf("set[%d] = %s, want %s", i, set[i].Category(), cat)
		}
	}
}

func TestDefault(t *testing.T) {
	set := Default()
	if len(set) != 3 {
		t.Fatalf("got %d analyzers, want 3", len(set))
	}
	tools := map[Category]string{}
	for _, a := range set {
		tools[a.Category()] = a.Tool()
	}
	if tools[CategoryNaming] != "flake8" || tools[CategoryComplexity] != "radon" || tools[CategorySecurity] != "bandit" {
		t.Errorf("default tools = %v", tools)
	}
}
