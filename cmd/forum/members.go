package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lottery-forum/internal/core/config"
	"lottery-forum/internal/domain"
	"lottery-forum/internal/feature/member"
	"lottery-forum/internal/repo"
)

func newMembersCmd(cfgPath *string) *cobra.Command {
	var q domain.MemberQuery
	cmd := &cobra.Command{
		Use:   "members",
		Short: "List the member directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read(*cfgPath)
			if err != nil {
				return err
			}
			log := zap.NewNop()
			db, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			page, err := member.NewDirectory(repo.NewMemberRepo(db), nil, 0, log).List(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printMembers(cmd, page)
		},
	}
	cmd.Flags().StringVarP(&q.Q, "query", "q", "", "filter by username or email")
	cmd.Flags().IntVar(&q.Limit, "limit", member.DefaultListLimit, "page size")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "rows to skip")
	return cmd
}

func printMembers(cmd *cobra.Command, p member.Page) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE\tACTIVE\tJOINED")
	for _, m := range p.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
			m.ID, m.Username, m.Email, m.Role, m.IsActive, m.CreatedAt.Format(time.DateOnly))
	}
	fmt.Fprintf(w, "\n%d of %d\n", len(p.Items), p.Total)
	return w.Flush()
}
