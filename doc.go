// Package willow3d is a small retained-mode 3D viewer: one PBR-lit mesh,
// an equirectangular environment map, orbit controls, a parameter panel and
// a logo decal that can be projected onto the mesh and resized live.
//
// Rendering is done on the CPU into a [Canvas], so the package itself has no
// window or GPU dependency and runs headless in tests. The willow3d/host
// package shows a [Session] in an [Ebitengine] window.
//
// # Quick start
//
// Pick a profile, bind a canvas and hand the session to the host:
//
//	cfg, _ := willow3d.Profile(willow3d.ProfileKnot)
//	canvas := willow3d.NewCanvas(cfg.Target, cfg.Width, cfg.Height)
//	sess, err := willow3d.Bootstrap(cfg, canvas, willow3d.Size{Width: cfg.Width, Height: cfg.Height})
//	if err != nil {
//		log.Fatal(err)
//	}
//	host.Run(sess, host.RunConfig{Title: cfg.Title})
//
// Without a window, call [Session.Update] and [Session.RenderFrame] yourself
// and read the pixels from [Canvas.Image].
//
// # Profiles
//
// Two built-in profiles exist. "knot" (the default) shows a torus knot and
// projects the logo onto its surface as a separate transparent mesh. "cube"
// shows a unit cube and stamps the logo into the cube's own material. Both
// can be adjusted with a TOML file; see [LoadConfig].
//
// # Scene
//
// A [Scene] holds a tree of [Node] values rooted at [Scene.Root]. Mesh nodes
// carry a [Geometry] and a [StandardMaterial]. The [Renderer] rasterizes
// every visible mesh with a depth buffer, opaque meshes first and transparent
// overlays after them.
//
// # Panel
//
// [Panel] binds struct fields to controls: colors, booleans, bounded floats
// and buttons. Values are clamped to their range and change callbacks run
// synchronously. [PanelView] lays the panel out and turns pointer input into
// value changes; drawing is left to the host.
//
// Set an [EntityStore] with [Session.SetEntityStore] to receive every control
// change as a [PanelEvent]; the willow3d/ecs module forwards them to a Donburi
// world.
//
// # Decal
//
// [Decal] is added at most once. Before that, [Decal.Resize] fails with
// [ErrDecalNotAdded]; after that it rebuilds the decal geometry in place.
//
// # Testing
//
// [LoadTestScript] reads a JSON script of clicks, drags, control changes and
// screenshots that a session replays one step per frame. Screenshots are
// written as lossless WebP.
//
// [Ebitengine]: https://ebitengine.org
package willow3d
