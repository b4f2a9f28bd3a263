// Package form implements the validating form components.
//
// Components are built top down. Each constructor takes the Scope handed out
// by its container, mounts an element under the container's host element,
// fetches its share id and registers its validation action with the nearest
// collecting ancestor. Containers expose the Scope their children use, so
// the tree of constructors mirrors the element tree:
//
//	f := form.NewForm(form.NewScope(form.WithLogger(logger)), form.FormProps{})
//	group := form.NewFormGroup(f.Scope(), form.FormGroupProps{Required: true})
//	form.NewLabel(group.Scope(), form.TextProps{Text: "Email"})
//	email := form.NewTextInput(group.Scope(), form.TextInputProps{Type: "email"})
//
// Values flow in through SetModelValue style methods and out through the
// OnChange callbacks, so the caller owns the model. User interaction is
// simulated with the event methods (Input, Change, CompositionStart and so
// on), which is also how tests drive the components.
//
// Form.Submit validates every registered group concurrently and, on failure,
// moves focus to the first invalid control in document order.
package form
