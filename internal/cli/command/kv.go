package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/flatkv/flatkv-go/pkg/codec"
)

// GetCommand returns the get subcommand.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print the value stored under a key",
		ArgsUsage: "KEY",
		Action:    kvGet,
	}
}

// SetCommand returns the set subcommand.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store a value under a key and persist",
		ArgsUsage: "KEY VALUE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "string",
				Usage: "Store VALUE as a plain string without JSON parsing",
			},
		},
		Action: kvSet,
	}
}

// DelCommand returns the del subcommand.
func DelCommand() *cli.Command {
	return &cli.Command{
		Name:      "del",
		Usage:     "Delete entries and persist",
		ArgsUsage: "KEY...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "match",
				Aliases: []string{"m"},
				Usage:   "Delete every key containing this substring instead",
			},
		},
		Action: kvDel,
	}
}

// KeysCommand returns the keys subcommand.
func KeysCommand() *cli.Command {
	return &cli.Command{
		Name:   "keys",
		Usage:  "List all keys in sorted order",
		Action: kvKeys,
	}
}

// CountCommand returns the count subcommand.
func CountCommand() *cli.Command {
	return &cli.Command{
		Name:   "count",
		Usage:  "Print the number of entries",
		Action: kvCount,
	}
}

func kvGet(c *cli.Context) error {
	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("key required")
	}

	e, err := openStore(c)
	if err != nil {
		return err
	}

	value, err := e.Get(c.Context, key)
	if err != nil {
		return err
	}

	out, err := codec.JSON{}.MarshalIndent(value)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, out)
	return nil
}

func kvSet(c *cli.Context) error {
	key := c.Args().Get(0)
	raw := c.Args().Get(1)
	if key == "" || c.Args().Len() < 2 {
		return fmt.Errorf("key and value required")
	}

	e, err := openStore(c)
	if err != nil {
		return err
	}

	// The value is stored as structured JSON when it parses as such,
	// otherwise as a plain string.
	var value any = raw
	if !c.Bool("string") {
		var parsed any
		if err := (codec.JSON{}).Unmarshal(raw, &parsed); err == nil {
			value = parsed
		}
	}

	if err := e.Set(c.Context, key, value); err != nil {
		return err
	}
	return e.Persist(c.Context)
}

func kvDel(c *cli.Context) error {
	e, err := openStore(c)
	if err != nil {
		return err
	}

	if substr := c.String("match"); substr != "" {
		matched, removed, err := e.DeleteMatching(c.Context, substr)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "matched %d, removed %d\n", matched, removed)
		return nil
	}

	keys := c.Args().Slice()
	if len(keys) == 0 {
		return fmt.Errorf("at least one key required")
	}

	ok, err := e.DeleteKeys(c.Context, keys)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("not all keys were removed")
	}
	return nil
}

func kvKeys(c *cli.Context) error {
	e, err := openStore(c)
	if err != nil {
		return err
	}
	for _, key := range e.Keys() {
		fmt.Fprintln(c.App.Writer, key)
	}
	return nil
}

func kvCount(c *cli.Context) error {
	e, err := openStore(c)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, e.Count())
	return nil
}
