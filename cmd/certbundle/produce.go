package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/named-data/certbundle/bundle"
	"github.com/named-data/certbundle/config"
	"github.com/named-data/certbundle/ndn"
	"github.com/named-data/certbundle/store"
)

type produceOpts struct {
	configPath string
	settle     time.Duration
}

func cmdProduce() *cobra.Command {
	opts := &produceOpts{}
	cmd := &cobra.Command{
		GroupID: "sec",
		Use:     "produce SIGNING-KEY-NAME",
		Short:   "Walk a signing key's certificate chain and publish a bundle",
		Long: `Walk a signing key's certificate chain and publish a bundle.

Starting from SIGNING-KEY-NAME, recursively fetches each certificate's
issuer over the network (spec.md's bundle-producer chain walk), then
segments the accumulated chain and writes the signed bundle segments to
the configured content store.`,
		Args:    cobra.ExactArgs(1),
		Example: `  certbundle produce /alice/KEY/%01%02 --config producer.yaml`,
		Run:     opts.run,
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "certbundle.yaml", "Configuration file")
	cmd.Flags().DurationVar(&opts.settle, "settle", 2*time.Second, "Time to wait for the chain walk to settle before publishing")
	return cmd
}

func (o *produceOpts) run(_ *cobra.Command, args []string) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		fail("produce: %v", err)
	}

	signingKeyName := ndn.NewName(splitURI(args[0])...)

	eng, err := dialEngine(cfg)
	if err != nil {
		fail("produce: %v", err)
	}
	defer eng.Stop()

	helper := bundle.NewHelper(eng)
	helper.SetMaxBundleSize(cfg.Producer.MaxBundleSize)

	state := helper.BeginBundleCreation(signingKeyName)

	// The chain walk runs on the face's receive goroutine as replies
	// arrive; there is no single "done" event to wait on (a partial chain
	// is still publishable, spec.md §4.3 step 5), so this simply gives it
	// a fixed window to settle before snapshotting whatever it collected.
	time.Sleep(o.settle)

	bundleName, err := ndn.DeriveBundleName(signingKeyName)
	if err != nil {
		fail("produce: %v", err)
	}

	segments, err := helper.GetBundle(bundleName, state)
	if err != nil {
		fail("produce: %v", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		fail("produce: %v", err)
	}
	defer st.Close()

	for _, seg := range segments {
		wire, err := seg.Encode()
		if err != nil {
			fail("produce: %v", err)
		}
		if err := st.Put(seg.Name, wire); err != nil {
			fail("produce: %v", err)
		}
	}

	fmt.Fprintf(os.Stderr, "published %d bundle segment(s) for %s (%d certificates)\n",
		len(segments), signingKeyName, state.Depth())
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.Producer.StorePath == "" {
		return store.NewMemoryStore(), nil
	}
	return store.OpenBadgerStore(cfg.Producer.StorePath)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// splitURI splits a "/a/b/c" style name string into its component
// strings, matching the teacher's enc.NameFromStr convention closely
// enough for CLI arguments that never carry non-generic components.
func splitURI(uri string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(uri); i++ {
		if uri[i] == '/' {
			if i > start {
				parts = append(parts, uri[start:i])
			}
			start = i + 1
		}
	}
	if start < len(uri) {
		parts = append(parts, uri[start:])
	}
	return parts
}
