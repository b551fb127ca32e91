// Package component is the rendering engine: an application root (App)
// and the Component base every view is built from.
//
// A component owns a guarded property bag and a Renderer that turns the
// properties into a template string. Build renders the template, parses
// it into a detached fragment, tags every top-level node with the
// component's identifier and resolves %{ ... }% placeholders, binding
// on<type> handlers and building nested components along the way.
//
// Updates replace the whole subtree. SetProps merges new properties and
// emits UPDATE unless they are already structurally contained in the
// current ones; the UPDATE handler rebuilds the component and swaps the
// fresh fragment in place of the old nodes:
//
//	list, _ := component.New(app, component.RenderFunc(func(p map[string]any) string {
//	    return `<ul>%{ Item(` + itemsJSON(p) + `...) }%</ul>`
//	}), map[string]any{"Item": template.RenderFunc(renderItem)})
//	app.RenderToBody(list)
//	app.Ready()
//	list.SetProps(map[string]any{"items": items}) // rebuilds and swaps
//
// # Lifecycle
//
// Every component emits, on its own event channel:
//
//	INIT          once, from New
//	BEFORERENDER  at the start of Build; listeners are detached and nested
//	              components unmounted before user handlers run
//	RENDER        at the end of Build, with the fragment as payload
//	MOUNT         when first inserted by App.RenderToBody
//	UPDATE        from SetProps and Refresh; triggers reconciliation
//	REMOUNT       after reconciliation, for components that stayed live
//	UNMOUNT       on teardown; the identifier is released
//
// The engine is single-threaded. All calls must happen on the App's
// execution context; other goroutines hand work over with App.Dispatch.
package component
