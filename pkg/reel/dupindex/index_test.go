package dupindex

import (
	"fmt"
	"sync"
	"testing"
)

func TestGroupsRequireTwoMembers(t *testing.T) {
	ix := New()
	ix.Add("aaaa", "clips/a.mp4")
	ix.Add("bbbb", "clips/b.mp4")
	ix.Add("aaaa", "archive/a-copy.mp4")
	ix.Add("cccc", "clips/c.mp4")

	groups := ix.Groups()
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Digest != "aaaa" {
		t.Errorf("group digest = %s, want aaaa", groups[0].Digest)
	}
	want := []string{"clips/a.mp4", "archive/a-copy.mp4"}
	if len(groups[0].Paths) != len(want) {
		t.Fatalf("group has %d paths, want %d", len(groups[0].Paths), len(want))
	}
	for i, path := range want {
		if groups[0].Paths[i] != path {
			t.Errorf("paths[%d] = %s, want %s", i, groups[0].Paths[i], path)
		}
	}
}

func TestGroupsPreserveFirstSeenOrder(t *testing.T) {
	ix := New()
	ix.Add("2222", "b1")
	ix.Add("1111", "a1")
	ix.Add("2222", "b2")
	ix.Add("1111", "a2")

	groups := ix.Groups()
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Digest != "2222" || groups[1].Digest != "1111" {
		t.Errorf("group order = %s, %s; want 2222, 1111", groups[0].Digest, groups[1].Digest)
	}
}

func TestPathsReturnsCopy(t *testing.T) {
	ix := New()
	ix.Add("dddd", "one")
	ix.Add("dddd", "two")

	paths := ix.Paths("dddd")
	paths[0] = "mutated"

	again := ix.Paths("dddd")
	if again[0] != "one" {
		t.Error("Paths returned a view into internal state")
	}

	if got := ix.Paths("missing"); len(got) != 0 {
		t.Errorf("Paths for unknown digest = %v, want empty", got)
	}
}

func TestConcurrentAdds(t *testing.T) {
	ix := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ix.Add("shared", fmt.Sprintf("w%d/f%d", worker, j))
			}
		}(i)
	}
	wg.Wait()

	if got := len(ix.Paths("shared")); got != 800 {
		t.Errorf("recorded %d paths, want 800", got)
	}
	if ix.Len() != 1 {
		t.Errorf("Len = %d, want 1", ix.Len())
	}
}
