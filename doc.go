// Package adbenv manages ephemeral, container-hosted Oracle Autonomous
// Database instances for automated tests.
//
// A Controller starts an instance from a container image that provisions the
// database in Oracle Cloud, exposes JDBC connection parameters once the
// instance is ready, and tears it down (or keeps it for reuse) on Stop.
//
// # Basic Usage
//
//	import "github.com/giantswarm/adbenv"
//
//	ctx := context.Background()
//
//	ctl, err := adbenv.NewController(
//	    adbenv.WithDatabaseName("TESTDB"),
//	    adbenv.WithProfile("DEFAULT"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := ctl.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer ctl.Stop(ctx)
//
//	url, err := ctl.JDBCURL()
//
// The OCI credentials file ($HOME/.oci/config by default) must contain the
// selected profile with a key_file entry pointing at an existing private key.
//
// # Shared Instances
//
// With WithReuse the instance survives Stop and is found again, by database
// name, by the next run. Combine it with WithUsernamePrefix to give every test
// context its own database user inside the shared instance:
//
//	ctl, err := adbenv.NewController(
//	    adbenv.WithDatabaseName("SHARED"),
//	    adbenv.WithReuse(true),
//	    adbenv.WithUsernamePrefix("TESTUSER"),
//	    adbenv.WithIsolationKey(t.Name()),
//	)
//
// Start creates the user, Stop drops it. Users are named
// <prefix><process identity>_<isolation key>_<n>, where n never repeats within
// a process, so a key that is stopped and started again gets a new user.
//
// Reusable instances must outlive the test process; disable the testcontainers
// reaper with TESTCONTAINERS_RYUK_DISABLED=true.
//
// # Logging
//
// adbenv logs through log/slog. Use SetLogger to route its records elsewhere.
package adbenv
