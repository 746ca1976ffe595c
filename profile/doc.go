// Package profile writes runtime profiles for a single CLI invocation.
//
// Profiles are selected by name with --profile and written as
// <name>.pprof files under --profile-dir. The CPU profile covers the time
// between [Profiler.Start] and [Profiler.Stop]; every other profile is a
// snapshot taken at [Profiler.Stop].
//
//	cfg := profile.NewConfig()
//	cfg.RegisterFlags(rootCmd.Flags())
//
//	p, err := cfg.NewProfiler()
//	err = p.Start()
//	defer p.Stop()
//
// For example, aggstage --profile cpu,heap --profile-dir /tmp/prof big.js.
package profile
