package input

import "testing"

func TestButtonString(t *testing.T) {
	cases := map[Button]string{
		ButtonLeft:   "left",
		ButtonRight:  "right",
		ButtonMiddle: "middle",
	}
	for button, want := range cases {
		if got := button.String(); got != want {
			t.Errorf("Button(%d).String() = %q, want %q", button, got, want)
		}
	}
}
