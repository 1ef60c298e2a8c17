package loaderplugin

// LoaderHandler is the default handler for bundler loaders published on npm
// as "<name>-loader" packages.
type LoaderHandler struct {
	*BaseHandler
}

// NewLoaderHandler creates a LoaderHandler for the loader prefix name.
func NewLoaderHandler(lookup Lookup, name string, opts ...HandlerOption) *LoaderHandler {
	return &LoaderHandler{BaseHandler: NewBaseHandler(lookup, name, opts...)}
}

// NodeModulePkgName is the npm package providing the loader.
func (h *LoaderHandler) NodeModulePkgName() string {
	return h.Name() + "-loader"
}

// AutogenLoaderHandler is a LoaderHandler the registry created on demand
// because nothing was registered under its name.
type AutogenLoaderHandler struct {
	*LoaderHandler
}

// Autogenerated reports that the handler was synthesized.
func (*AutogenLoaderHandler) Autogenerated() bool {
	return true
}

// NodePackager is implemented by handlers backed by an npm package.
type NodePackager interface {
	NodeModulePkgName() string
}
