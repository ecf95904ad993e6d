package plugins

import (
	"fmt"
	"regexp"

	"github.com/evanw/esbuild/pkg/api"
	"micromachine.dev/vendor-externals/lib/externals"
	"micromachine.dev/vendor-externals/lib/utils"
)

const globalExternalNamespace = "external-global"

var globalPathRe = regexp.MustCompile(`^[A-Za-z_$][\w$]*(\.[A-Za-z_$][\w$]*)*$`)

// GlobalExternalsPlugin replaces imports of vendor modules with the globals
// their script tags define.
type GlobalExternalsPlugin struct {
	Externals externals.Resolver
}

func (p *GlobalExternalsPlugin) New() api.Plugin {
	return api.Plugin{
		Name: "global-externals",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: ".*"}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				if args.Kind == api.ResolveEntryPoint || p.Externals == nil {
					return api.OnResolveResult{}, nil
				}

				global, ok := p.Externals.ResolveExternal(args.Path)
				if !ok {
					return api.OnResolveResult{}, nil
				}

				if global == nil {
					return api.OnResolveResult{
						Path:     args.Path,
						External: true,
					}, nil
				}

				return api.OnResolveResult{
					Path:       args.Path,
					Namespace:  globalExternalNamespace,
					PluginData: *global,
				}, nil
			})

			build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: globalExternalNamespace}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				global, ok := args.PluginData.(string)
				if !ok {
					return api.OnLoadResult{}, fmt.Errorf("no global recorded for %q", args.Path)
				}

				contents := fmt.Sprintf("module.exports = %s;", GlobalExpression(global))
				return api.OnLoadResult{
					Contents: &contents,
					Loader:   api.LoaderJS,
				}, nil
			})
		},
	}
}

// GlobalExpression returns the JavaScript expression reading global from
// globalThis. Dotted names walk nested objects.
func GlobalExpression(global string) string {
	if globalPathRe.MatchString(global) {
		return "globalThis." + global
	}
	return fmt.Sprintf("globalThis[%s]", utils.ToJSString(global))
}
