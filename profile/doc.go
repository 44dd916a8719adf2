// Package profile writes pprof profiles of a command run.
//
// Building a coding table from a large Drive folder is dominated by API
// round trips and annotation parsing; the CPU and heap profiles show which.
//
//	cfg := profile.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	p := cfg.NewProfiler()
//	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error { return p.Start() }
//
//	err := rootCmd.ExecuteContext(ctx)
//	stopErr := p.Stop()
//
// Profiling is enabled with flags such as --cpu-profile=cpu.prof.
package profile
