package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jrcrawfo/contxt-go/internal/cache"
)

// newCacheCmd creates the cache command group.
func newCacheCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Inspect and clear the page cache"}
	cmd.AddCommand(newCacheInfoCmd(opts), newCacheClearCmd(opts))
	return cmd
}

// openCache opens the configured cache directory even when caching is
// disabled, so stale pages can still be inspected and removed.
func (o *rootOptions) openCache() (*cache.FileStore, error) {
	cc := o.cfg.Cache
	return cache.NewFileStore(cc.Directory, true, cc.TTLSeconds, cc.MaxSizeMB)
}

func newCacheInfoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache location, size and entry count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := opts.openCache()
			if err != nil {
				return err
			}
			count, err := store.Count()
			if err != nil {
				return err
			}
			size, err := store.Size()
			if err != nil {
				return err
			}
			cmd.Printf("Directory: %s\n", store.Directory())
			cmd.Printf("Enabled:   %t\n", opts.cfg.Cache.Enabled)
			cmd.Printf("TTL:       %s\n", cache.FormatDuration(time.Duration(store.TTL())*time.Second))
			cmd.Printf("Entries:   %d\n", count)
			cmd.Printf("Size:      %d bytes\n", size)
			return nil
		},
	}
}

func newCacheClearCmd(opts *rootOptions) *cobra.Command {
	var expiredOnly bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := opts.openCache()
			if err != nil {
				return err
			}
			if expiredOnly {
				removed, cleanErr := store.CleanupExpired()
				if cleanErr != nil {
					return cleanErr
				}
				cmd.Printf("Removed %d expired entries\n", removed)
				return nil
			}
			if err := store.Clear(); err != nil {
				return err
			}
			cmd.Printf("Cache cleared: %s\n", store.Directory())
			return nil
		},
	}
	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove expired entries")
	return cmd
}
