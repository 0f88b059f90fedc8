package page

import "testing"

func TestFlagsStartFalse(t *testing.T) {
	var c Container
	if c.Flags() != (Flags{}) {
		t.Errorf("expected all flags false, got %+v", c.Flags())
	}
}

func TestFlagsAreIndependentAndOneWay(t *testing.T) {
	var c Container

	if s := c.ViewExamples(); s != Example {
		t.Errorf("ViewExamples scrolled to %q", s)
	}
	if got := c.Flags(); got != (Flags{ShowExample: true}) {
		t.Errorf("only ShowExample should be set, got %+v", got)
	}

	if s := c.GetStarted(); s != Editor {
		t.Errorf("GetStarted scrolled to %q", s)
	}
	c.RevealHighATS()

	// Triggering again never clears anything
	c.GetStarted()
	c.ViewExamples()

	want := Flags{ShowEditor: true, ShowExample: true, ShowHighATS: true}
	if got := c.Flags(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
