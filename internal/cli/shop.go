package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/coined/internal/model"
	"github.com/dtroode/coined/internal/views"
)

func newShopCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Browse and manage the class shop",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List shop items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}
			category, _ := cmd.Flags().GetString("category")

			snap := rt.app.Store.Snapshot()
			out := cmd.OutOrStdout()

			t := newTable(out, "ID", "NAME", "CATEGORY", "COST", "TAG")
			for _, it := range views.ShopByCategory(snap, category) {
				t.row(it.ID, it.Icon+" "+it.Name, it.Category, it.Cost, it.Tag)
			}
			t.flush()

			if me, ok := snap.CurrentUser(); ok && me.IsStudent() {
				fmt.Fprintf(out, "Your coins: %d\n", views.BalanceOf(snap, me.ID))
			}
			return nil
		},
	}
	list.Flags().StringP("category", "c", "", "Only list items of this category")

	add := &cobra.Command{
		Use:   "add NAME COST",
		Short: "Add an item to the shop",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cost, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}

			item := model.ShopItem{Name: args[0], Cost: cost}
			item.Category, _ = cmd.Flags().GetString("category")
			item.Description, _ = cmd.Flags().GetString("description")
			item.Icon, _ = cmd.Flags().GetString("icon")
			item.Tag, _ = cmd.Flags().GetString("tag")

			created, err := rt.app.Reconciler.AddShopItem(cmd.Context(), item)
			if err != nil {
				return err
			}
			rt.notice(cmd)
			fmt.Fprintf(cmd.OutOrStdout(), "id: %s\n", created.ID)
			return nil
		},
	}
	add.Flags().StringP("category", "c", "", "Item category")
	add.Flags().StringP("description", "d", "", "Item description")
	add.Flags().String("icon", "", "Item icon")
	add.Flags().String("tag", "", "Promotional tag, e.g. NEW")

	remove := &cobra.Command{
		Use:   "remove ITEM_ID",
		Short: "Remove an item from the shop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}
			return rt.done(cmd, rt.app.Reconciler.RemoveShopItem(cmd.Context(), args[0]))
		},
	}

	buy := &cobra.Command{
		Use:   "buy ITEM_ID",
		Short: "Buy an item with your coins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}
			return rt.done(cmd, rt.app.Reconciler.Purchase(cmd.Context(), args[0]))
		},
	}

	cmd.AddCommand(list, add, remove, buy)
	return cmd
}
