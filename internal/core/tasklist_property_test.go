package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func genTaskList(t *rapid.T) TaskList {
	n := rapid.IntRange(0, 8).Draw(t, "n")
	var l TaskList
	for i := 0; i < n; i++ {
		text := rapid.StringMatching(`[a-z]{1,12}`).Draw(t, fmt.Sprintf("text_%d", i))
		l, _, _ = l.Add(fmt.Sprintf("id-%d", i), text)
		if rapid.Bool().Draw(t, fmt.Sprintf("done_%d", i)) {
			l = l.Toggle(fmt.Sprintf("id-%d", i))
		}
	}
	return l
}

// For any non-blank text, Add grows the list by exactly one and the new
// task is incomplete.
func TestProperty_AddGrowsByOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		l := genTaskList(rt)
		text := rapid.StringMatching(`\s{0,3}[A-Za-z0-9][A-Za-z0-9 ]{0,20}\s{0,3}`).Draw(rt, "text")

		next, task, err := l.Add("new", text)
		if err != nil {
			rt.Fatalf("Add(%q): %v", text, err)
		}
		if next.Len() != l.Len()+1 {
			rt.Fatalf("Len = %d, want %d", next.Len(), l.Len()+1)
		}
		if task.Completed {
			rt.Fatal("new task is completed")
		}
		if task.Text != strings.TrimSpace(text) {
			rt.Fatalf("Text = %q, want trimmed %q", task.Text, text)
		}
	})
}

// For any whitespace-only text, Add leaves the list unchanged.
func TestProperty_AddBlankIsRejected(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		l := genTaskList(rt)
		text := rapid.StringMatching(`[ \t\n]{0,6}`).Draw(rt, "blank")

		next, _, err := l.Add("new", text)
		if !errors.Is(err, ErrEmptyTaskText) {
			rt.Fatalf("err = %v, want ErrEmptyTaskText", err)
		}
		if next.Len() != l.Len() {
			rt.Fatalf("Len changed from %d to %d", l.Len(), next.Len())
		}
	})
}

// Toggling any present task twice restores its completion flag.
func TestProperty_DoubleToggleIsIdentity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		l := genTaskList(rt)
		if l.Len() == 0 {
			return
		}
		idx := rapid.IntRange(0, l.Len()-1).Draw(rt, "idx")
		id := l.Tasks()[idx].ID
		before, _ := l.Get(id)

		after, _ := l.Toggle(id).Toggle(id).Get(id)
		if after.Completed != before.Completed {
			rt.Fatalf("Completed = %v, want %v", after.Completed, before.Completed)
		}
	})
}

// Deleting a present task removes exactly that task and keeps the order of
// the rest.
func TestProperty_DeletePreservesOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		l := genTaskList(rt)
		if l.Len() == 0 {
			return
		}
		idx := rapid.IntRange(0, l.Len()-1).Draw(rt, "idx")
		all := l.Tasks()

		got := l.Delete(all[idx].ID).Tasks()
		want := append(append([]string{}, ids(all[:idx])...), ids(all[idx+1:])...)
		if strings.Join(ids(got), ",") != strings.Join(want, ",") {
			rt.Fatalf("ids = %v, want %v", ids(got), want)
		}
	})
}
