package commands

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/alexeyco/simpletable"
	"github.com/urfave/cli/v2"

	"github.com/rudderlabs/rudder-purifier/connections"
)

func init() {
	DefaultList = append(DefaultList, CATALOG())
}

func CATALOG() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "inspect catalog documents",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "validate a catalog document and list its connections",
				Action: List,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "catalog",
						Aliases:  []string{"c"},
						Usage:    "catalog document, local path, afs URL or - for stdin",
						Required: true,
					},
				},
			},
		},
	}
}

func List(c *cli.Context) error {
	snapshot, err := loadCatalog(c.Context, c, c.String("catalog"))
	if err != nil {
		return err
	}

	table := simpletable.New()
	table.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: "Name"},
			{Align: simpletable.AlignCenter, Text: "Type"},
			{Align: simpletable.AlignCenter, Text: "Endpoint"},
		},
	}

	for _, item := range snapshot.Items() {
		r := []*simpletable.Cell{
			{Align: simpletable.AlignLeft, Text: item.Name},
			{Align: simpletable.AlignLeft, Text: string(item.Connection.Kind())},
			{Align: simpletable.AlignLeft, Text: endpoint(item.Connection)},
		}
		table.Body.Cells = append(table.Body.Cells, r)
	}

	table.SetStyle(simpletable.StyleCompactLite)
	_, err = fmt.Fprintln(c.App.Writer, table.String())
	return err
}

func endpoint(conn connections.Connection) string {
	switch conn := conn.(type) {
	case *connections.KafkaConnection:
		return strings.Join(conn.Brokers, ",")
	case *connections.CsrConnection:
		if conn.URL == nil {
			return ""
		}
		return conn.URL.String()
	case *connections.PostgresConnection:
		s := net.JoinHostPort(conn.Host, strconv.Itoa(int(conn.Port))) + "/" + conn.Database
		if conn.SSHTunnel != "" {
			s += " via " + conn.SSHTunnel
		}
		return s
	case *connections.SSHConnection:
		return conn.User + "@" + net.JoinHostPort(conn.Host, strconv.Itoa(conn.Port))
	default:
		return ""
	}
}
