// Package xr is an interaction engine for immersive (VR/AR) scenes with
// several simultaneous input sources.
//
// It keeps a retained 3D scene graph, derives one pointing ray per input
// source every frame, raycasts the scene and turns the results into hover,
// select and drag callbacks on the nodes that opted in. Controller visuals
// (cursor, laser, grip mesh) follow each source.
//
// # Quick start
//
// The host owns the session and the frame loop. Build a scene, create an
// [Interactions], and drive it:
//
//	scene := xr.NewScene("room")
//	cube := xr.NewMesh("cube", xr.NewBoxGeometry(0.3, 0.3, 0.3))
//	cube.SetPosition(0, 1, -2)
//	cube.Interactions = &xr.Interactable{
//		HoverStart: func(ctx xr.HoverContext) { ctx.Node.Color = xr.Color{R: 1, G: 0.6, B: 0.2, A: 1} },
//		HoverEnd:   func(ctx xr.HoverContext) { ctx.Node.Color = xr.ColorWhite },
//		Drag:       xr.DefaultDrag,
//	}
//	scene.Add(cube)
//
//	ix := xr.NewInteractions(scene.Static(), xr.DefaultControllerOptions())
//	ix.Setup(session)
//	// each frame:
//	ix.Update(timestampMillis, frame)
//	// on session end:
//	ix.Close(session)
//
// [Session] and [Frame] are small interfaces; [SimSession] implements them
// in-process for tests and scripted runs, and the desktop package emulates
// input sources with mouse, keyboard and touch.
//
// # Capabilities
//
// A node takes part in interaction by setting [Node.Interactions]. Every
// field of [Interactable] is optional. Missing start/end/select callbacks
// fall back to no-op defaults, and missing drag callbacks fall back to
// [DefaultDragStart] and [DefaultDrag], which move the node rigidly with the
// pointer. A node whose own slot is nil routes interaction to its nearest
// ancestor with a slot; a hit with no such ancestor is transparent.
//
// # Frame order
//
// Session signals (source changes, select start/end) are queued as they
// arrive and processed at the start of the next [Interactions.Update], then
// every source's hover or drag transition runs in the order the sources
// connected. While a source holds a selection its ray only tests the
// selected subtree.
//
// Tweens use [gween]. Math types alias [mgl64].
//
// [gween]: https://github.com/tanema/gween
// [mgl64]: https://github.com/go-gl/mathgl
package xr
