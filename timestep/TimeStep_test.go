package timestep

import "testing"

func TestParseEndType(t *testing.T) {
	for e := None; e <= StepLimit; e++ {
		have, err := ParseEndType(e.String())
		if err != nil || have != e {
			t.Errorf("parseEndType(%q) \n\twant(%v) \n\thave(%v %v)",
				e.String(), e, have, err)
		}
	}

	if _, err := ParseEndType("success"); err == nil {
		t.Error("parseEndType: names are case sensitive")
	}
}
