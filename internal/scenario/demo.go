package scenario

// demo walks the whole reveal: a tap, four swipes (one slightly short of
// full travel), the timed reveal, then a share.
const demo = `
name: demo
description: full walkthrough ending on the call to action
steps:
  - at: 200ms
    action: tap
    points: [[60, 40], [120, 200]]
  - at: 600ms
    action: swipe
  - at: 2s
    action: grab
  - at: 2100ms
    action: drag
    ratio: 0.5
  - at: 2200ms
    action: release
  - at: 3s
    action: swipe
    ratio: 0.9
  - at: 4500ms
    action: swipe
  - at: 6s
    action: swipe
  - at: 12s
    action: share
`

// Demo returns the built-in walkthrough scenario.
func Demo() *Scenario {
	s, err := Parse([]byte(demo))
	if err != nil {
		panic("scenario: bad demo: " + err.Error())
	}
	return s
}
