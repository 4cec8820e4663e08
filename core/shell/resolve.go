package shell

// Classify resolves each stage's command name exactly once and tags the stage
// as a builtin or an external program.
func Classify(p *Pipeline, resolver CommandResolver, builtins *BuiltinRegistry) []ResolvedStage {
	out := make([]ResolvedStage, 0, len(p.Stages))
	for _, stage := range p.Stages {
		argv := make([]string, len(stage))
		copy(argv, stage)
		argv[0] = resolver.Resolve(stage.Name())

		resolved := ResolvedStage{Kind: StageExternal, Argv: argv}
		if builtin, ok := builtins.Lookup(argv[0]); ok {
			resolved.Kind = StageBuiltin
			resolved.Builtin = builtin
		}
		out = append(out, resolved)
	}
	return out
}
