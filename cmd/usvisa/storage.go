package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/VishNikhil12/Us-Visa-Approval-Prediction/pkg/uvconfig"
	"github.com/VishNikhil12/Us-Visa-Approval-Prediction/pkg/uvstorage"
	"github.com/function61/gokit/logex"
	"github.com/function61/gokit/ossignal"
	"github.com/spf13/cobra"
)

func storageEntry() *cobra.Command {
	region := ""

	// wraps a command body with config loading + connection acquiring
	withResource := func(fn func(ctx context.Context, resource *uvstorage.Resource, args []string) error) func(*cobra.Command, []string) {
		return func(cmd *cobra.Command, args []string) {
			rootLogger := logex.StandardLogger()

			exitIfError(func() error {
				conf, err := uvconfig.ReadFromEnvOrFile()
				if err != nil {
					return err
				}

				uvstorage.SetDefault(uvstorage.NewProvider(
					uvstorage.FactoryFromConfig(*conf),
					conf.Region,
					rootLogger))

				_, resource, err := uvstorage.Acquire(region)
				if err != nil {
					return err
				}

				return fn(
					ossignal.InterruptOrTerminateBackgroundCtx(logex.Prefix("main", rootLogger)),
					resource,
					args)
			}())
		}
	}

	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Storage related commands",
	}

	cmd.PersistentFlags().StringVarP(&region, "region", "r", region, "Region (default: from config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "ls-buckets",
		Short: "List buckets",
		Args:  cobra.NoArgs,
		Run: withResource(func(ctx context.Context, resource *uvstorage.Resource, _ []string) error {
			buckets, err := resource.Buckets(ctx)
			if err != nil {
				return err
			}

			for _, bucket := range buckets {
				fmt.Println(bucket)
			}

			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "ls [bucket] [prefix]",
		Short: "List objects in a bucket",
		Args:  cobra.RangeArgs(1, 2),
		Run: withResource(func(ctx context.Context, resource *uvstorage.Resource, args []string) error {
			objects, err := resource.Bucket(args[0]).List(ctx, optionalArg(args, 1))
			if err != nil {
				return err
			}

			for _, object := range objects {
				fmt.Printf("%s\t%d\t%s\n", object.LastModified.UTC().Format("2006-01-02 15:04"), object.Size, object.Key)
			}

			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "ls-prefixes [bucket] [prefix]",
		Short: "List directories in a bucket",
		Args:  cobra.RangeArgs(1, 2),
		Run: withResource(func(ctx context.Context, resource *uvstorage.Resource, args []string) error {
			prefixes, err := resource.Bucket(args[0]).ListPrefixes(ctx, optionalArg(args, 1))
			if err != nil {
				return err
			}

			for _, prefix := range prefixes {
				fmt.Println(prefix)
			}

			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get [bucket] [key]",
		Short: "Write object to stdout",
		Args:  cobra.ExactArgs(2),
		Run: withResource(func(ctx context.Context, resource *uvstorage.Resource, args []string) error {
			body, err := resource.Bucket(args[0]).Get(ctx, args[1])
			if err != nil {
				return err
			}
			defer body.Close()

			_, err = io.Copy(os.Stdout, body)
			return err
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "put [bucket] [key] [file]",
		Short: "Upload a local file",
		Args:  cobra.ExactArgs(3),
		Run: withResource(func(ctx context.Context, resource *uvstorage.Resource, args []string) error {
			return resource.Bucket(args[0]).UploadFile(ctx, args[1], args[2])
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "download [bucket] [key] [file]",
		Short: "Download an object to a local file",
		Args:  cobra.ExactArgs(3),
		Run: withResource(func(ctx context.Context, resource *uvstorage.Resource, args []string) error {
			return resource.Bucket(args[0]).DownloadFile(ctx, args[1], args[2])
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "exists [bucket] [key]",
		Short: "Check if an object exists (exit code 2 if not)",
		Args:  cobra.ExactArgs(2),
		Run: withResource(func(ctx context.Context, resource *uvstorage.Resource, args []string) error {
			exists, err := resource.Bucket(args[0]).Exists(ctx, args[1])
			if err != nil {
				return err
			}

			if !exists {
				os.Exit(2)
			}

			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm [bucket] [key]",
		Short: "Delete an object",
		Args:  cobra.ExactArgs(2),
		Run: withResource(func(ctx context.Context, resource *uvstorage.Resource, args []string) error {
			return resource.Bucket(args[0]).Delete(ctx, args[1])
		}),
	})

	return cmd
}

func optionalArg(args []string, idx int) string {
	if idx < len(args) {
		return args[idx]
	}

	return ""
}
