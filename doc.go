// Package donut3d renders a proportional donut chart as a retained X3D scene
// graph and keeps it in sync with changing data, animating rotations and arc
// sweeps instead of snapping them.
//
// # Quick start
//
//	rec := &donut3d.Recorder{}
//	chart := donut3d.NewChart(rec)
//	err := chart.Render(donut3d.DefaultConfig().
//		WithData([]donut3d.Record{
//			{Name: "Apples", Value: 45, Color: donut3d.Named("tomato")},
//			{Name: "Pears", Value: 90, Color: donut3d.RGB(0.2, 0.6, 0.2)},
//		}).
//		WithLabelFormat(func(name string, _, pct float64) string {
//			return fmt.Sprintf("%s (%.0f%%)", name, pct)
//		}))
//
// Then drive animations from the host's frame clock:
//
//	chart.Tick(elapsed) // every frame
//
// # Pipeline
//
// Each [Chart.Render] runs [Compute] to turn records into [Segment] values,
// reconciles the scene [Tree] against them with [Tree.Reconcile], hands
// changed rotation and sweep attributes to the [Scheduler] and forwards the
// journaled [Mutation] stream to a [Backend]. Everything else (colors, label
// text, radii) is written synchronously. A render with unchanged input emits
// nothing.
//
// Reconciliation is keyed. By default a series is identified by its index;
// set [Config.Key] (for example [KeyByName]) so that reordered records move
// their nodes and keep their running transitions.
//
// # Backends
//
// The x3d sub-package writes the scene as an X3D document; the preview
// sub-package draws a flat projection with [Ebitengine].
//
// [Ebitengine]: https://ebitengine.org
package donut3d
