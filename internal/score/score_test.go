package score

import "testing"

func TestNewBarHasBarAttrFirst(t *testing.T) {
	b := NewBar()
	if len(b.ObjList) != 1 {
		t.Fatalf("NewBar() obj_list len = %d, want 1", len(b.ObjList))
	}
	if _, ok := b.ObjList[0].(*BarAttr); !ok {
		t.Errorf("obj_list[0] is %T, want *BarAttr", b.ObjList[0])
	}
	if b.Attr() == nil {
		t.Error("Attr() returned nil for a freshly created bar")
	}
}

func TestBarAttrIsEmpty(t *testing.T) {
	a := &BarAttr{}
	if !a.IsEmpty() {
		t.Error("fresh BarAttr should be empty")
	}
	a.Divisions = 4
	if a.IsEmpty() {
		t.Error("BarAttr with divisions set should not be empty")
	}
}

func TestScorePartListNesting(t *testing.T) {
	s := NewScore()
	g := s.NewGroup(-1)
	g.Bracket = BracketBrace
	p1 := s.NewPart("P1", g.ID)
	p2 := s.NewPart("P2", g.ID)

	if len(s.PartList) != 1 {
		t.Fatalf("top-level partlist len = %d, want 1 (only the group)", len(s.PartList))
	}
	if len(g.Children) != 2 {
		t.Fatalf("group children len = %d, want 2", len(g.Children))
	}
	if g.Children[0] != PartListEntry(p1) || g.Children[1] != PartListEntry(p2) {
		t.Error("group children not in insertion order")
	}
	if p1.ParentIdx != g.ID {
		t.Errorf("part parentIdx = %d, want %d", p1.ParentIdx, g.ID)
	}
}

func TestScoreTopLevelPart(t *testing.T) {
	s := NewScore()
	p := s.NewPart("P1", -1)
	if len(s.PartList) != 1 || s.PartList[0] != PartListEntry(p) {
		t.Error("top-level part not appended to partlist")
	}
}
