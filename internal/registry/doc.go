// Package registry stores the plugins added to an App.
//
// Entries keep registration order, which is the order lifecycle hooks are
// broadcast in. Plugins are keyed by name: the value of Name() when the
// plugin implements Named, otherwise its dynamic type name. A plugin that
// reports itself as unique (the default) may be added only once per name.
//
// The registry knows nothing about App; it stores plugins as opaque values
// and leaves hook dispatch to the caller.
package registry
