// Package desktop runs an xr scene in an Ebitengine window with an emulated
// immersive session, for development without a headset.
//
// The window's eye is a perspective [Camera] at standing height. Input maps
// onto session input sources:
//
//   - the mouse is a right-handed tracked pointer held just below the eye;
//     the left button is its primary action
//   - G toggles a head-locked gaze source; Space is its primary action
//   - each touch is a transient screen source that exists until the finger
//     lifts
//
// WASD walks, Q and E turn, R recenters and F12 saves a screenshot. Any
// other key is passed to [RunConfig].OnKey.
//
// Minimal use:
//
//	cfg, err := desktop.LoadConfigFromEnv()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := desktop.Run(scene.Static(), cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Use [New] instead of [Run] to reach the [xr.Interactions] engine before
// the window opens.
package desktop
