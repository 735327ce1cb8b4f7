package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/gogpu/ggwriter/codec"
	"github.com/gogpu/ggwriter/store"
)

func runStore(a *app, ctx context.Context, args []string) error {
	fs := a.flags("store")
	dbPath := fs.String("db", a.cfg.Store, "database file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: missing store command", errUsage)
	}
	sub, rest := fs.Arg(0), fs.Args()[1:]

	readOnly := sub == "get" || sub == "ls"
	db, err := store.Open(*dbPath, &store.Options{Timeout: time.Second, ReadOnly: readOnly})
	if err != nil {
		return err
	}
	defer db.Close()

	switch sub {
	case "put":
		return a.storePut(ctx, db, rest)
	case "get":
		return a.storeGet(ctx, db, rest)
	case "ls":
		return a.storeList(ctx, db)
	case "rm":
		if len(rest) != 1 {
			return fmt.Errorf("%w: rm NAME", errUsage)
		}
		return db.Delete(ctx, rest[0])
	}
	return fmt.Errorf("%w: unknown store command %q", errUsage, sub)
}

func (a *app) storePut(ctx context.Context, db *store.Store, args []string) error {
	fs := a.flags("store put")
	in := fs.String("i", "", "input record stream")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: put -i in.ggw NAME", errUsage)
	}
	root, err := a.load(*in)
	if err != nil {
		return err
	}
	meta, err := db.Put(ctx, fs.Arg(0), root)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, meta.ID)
	return nil
}

func (a *app) storeGet(ctx context.Context, db *store.Store, args []string) error {
	fs := a.flags("store get")
	out := fs.String("o", "", "output record stream")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *out == "" {
		return fmt.Errorf("%w: get -o out.ggw NAME", errUsage)
	}
	root, err := db.Get(ctx, fs.Arg(0), a.cfg.Options()...)
	if err != nil {
		return err
	}
	return save(*out, root)
}

func (a *app) storeList(ctx context.Context, db *store.Store) error {
	list, err := db.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tNODES\tBYTES\tBOUNDS\tCREATED")
	for _, m := range list {
		b := m.Bounds
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s %s %s %s\t%s\n",
			m.Name, m.Nodes, m.Size,
			codec.FormatFloat(b[0]), codec.FormatFloat(b[1]), codec.FormatFloat(b[2]), codec.FormatFloat(b[3]),
			m.Created.Format(time.RFC3339))
	}
	return tw.Flush()
}
