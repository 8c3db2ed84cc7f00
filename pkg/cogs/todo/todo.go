// Package todo implements personal todo management backed by Postgres.
package todo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/umbra/akane/internal/models"
	"github.com/umbra/akane/pkg/bot"
	"github.com/umbra/akane/pkg/format"
	"github.com/umbra/akane/pkg/store"
)

const perPage = 10

type Cog struct {
	store *store.Store
}

func New(s *store.Store) *Cog {
	return &Cog{store: s}
}

func (c *Cog) Name() string {
	return "Todo"
}

func (c *Cog) Register(b *bot.Bot) error {
	group := &bot.Command{
		Name:  "todo",
		Help:  "Todos! See the subcommands for more info.",
		Usage: "todo [content]",
		Run:   c.todoRoot,
	}
	group.Subcommand(&bot.Command{
		Name:           "list",
		Help:           "A list of todos for you.",
		MaxConcurrency: 1,
		Cooldown:       &bot.Cooldown{Rate: 1, Per: 15 * time.Second, Bucket: bot.BucketUser},
		Run:            c.todoList,
	})
	group.Subcommand(&bot.Command{
		Name:  "add",
		Help:  "Add me something to do later...",
		Usage: "todo add <content>",
		Run:   c.todoAdd,
	})
	group.Subcommand(&bot.Command{
		Name:    "delete",
		Aliases: []string{"remove", "bin", "done"},
		Help:    "Delete my todo thanks, since I did it already.",
		Usage:   "todo delete <id...>",
		Run:     c.todoDelete,
	})
	group.Subcommand(&bot.Command{
		Name:  "edit",
		Help:  "Edit my todo because I would like to change the wording or something.",
		Usage: "todo edit <id> <content>",
		Run:   c.todoEdit,
	})
	group.Subcommand(&bot.Command{
		Name:  "info",
		Help:  "Get a little extra info...",
		Usage: "todo info <id>",
		Run:   c.todoInfo,
	})
	group.Subcommand(&bot.Command{
		Name:     "clear",
		Help:     "Lets wipe 'em all!",
		Cooldown: &bot.Cooldown{Rate: 1, Per: time.Minute, Bucket: bot.BucketUser},
		Run:      c.todoClear,
	})
	b.Registry.Register(group)

	b.Registry.Register(&bot.Command{
		Name: "todos",
		Help: "Alias of `todo list`.",
		Run:  c.todoList,
	})
	return nil
}

// todoRoot treats `todo something` as a shortcut for `todo add something`.
func (c *Cog) todoRoot(ctx *bot.Context) error {
	if ctx.RawArg == "" {
		return bot.NewBadArgument("See `%shelp todo` for the subcommands.", ctx.Prefix)
	}
	return c.todoAdd(ctx)
}

func (c *Cog) ownerID(ctx *bot.Context) (int64, error) {
	return strconv.ParseInt(ctx.AuthorID(), 10, 64)
}

func (c *Cog) todoAdd(ctx *bot.Context) error {
	content := ctx.RawArg
	if content == "" {
		return bot.NewBadArgument("You need to give me something to remember!")
	}

	owner, err := c.ownerID(ctx)
	if err != nil {
		return err
	}

	id, err := c.store.AddTodo(ctx.Ctx, owner, content, ctx.JumpURL())
	if err != nil {
		return err
	}
	yes := true
	return ctx.Send("%s: created todo #__`%d`__ for you!", ctx.Tick(&yes), id)
}

func (c *Cog) todoList(ctx *bot.Context) error {
	owner, err := c.ownerID(ctx)
	if err != nil {
		return err
	}

	todos, err := c.store.Todos(ctx.Ctx, owner)
	if err != nil {
		return err
	}
	if len(todos) == 0 {
		return ctx.Send("You appear to have no active todos, look at how productive you are.")
	}

	var embeds []*discordgo.MessageEmbed
	for _, page := range format.Group(todos, perPage) {
		var lines []string
		for _, todo := range page {
			lines = append(lines, fmt.Sprintf("[__`%d`__](%s): %s", todo.ID, todo.JumpURL, format.Shorten(todo.Content, 100)))
		}
		embeds = append(embeds, &discordgo.MessageEmbed{
			Description: strings.Join(lines, "\n"),
			Footer:      &discordgo.MessageEmbedFooter{Text: "Use todo info ## for more details."},
		})
	}

	return ctx.Paginate(&bot.Pages{Embeds: embeds, DeleteMessageAfter: true})
}

func (c *Cog) todoDelete(ctx *bot.Context) error {
	if len(ctx.Args) == 0 {
		return bot.NewBadArgument("Give me at least one todo ID to remove.")
	}

	var ids []int64
	for _, arg := range ctx.Args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return bot.NewBadArgument("%q doesn't look like a todo ID.", arg)
		}
		ids = append(ids, id)
	}

	owner, err := c.ownerID(ctx)
	if err != nil {
		return err
	}

	deleted, err := c.store.DeleteTodos(ctx.Ctx, owner, ids)
	if err != nil {
		return err
	}
	return ctx.Send("Okay well done. I removed %s for you.", format.Plural(int(deleted), "todo"))
}

func (c *Cog) todoEdit(ctx *bot.Context) error {
	if len(ctx.Args) < 2 {
		return bot.NewBadArgument("Usage: `%stodo edit <id> <new content>`", ctx.Prefix)
	}

	id, err := strconv.ParseInt(ctx.Args[0], 10, 64)
	if err != nil {
		return bot.NewBadArgument("%q doesn't look like a todo ID.", ctx.Args[0])
	}

	owner, err := c.ownerID(ctx)
	if err != nil {
		return err
	}

	content := strings.TrimSpace(strings.TrimPrefix(ctx.RawArg, ctx.Args[0]))
	err = c.store.UpdateTodo(ctx.Ctx, owner, id, content, ctx.JumpURL())
	if err == store.ErrTodoNotFound {
		return bot.NewBadArgument("That doesn't seem to be your todo, or the ID is incorrect.")
	}
	if err != nil {
		return err
	}
	return ctx.Send("Neat. So todo #__`%d`__ has been updated for you. Go be productive!", id)
}

func (c *Cog) todoInfo(ctx *bot.Context) error {
	if len(ctx.Args) != 1 {
		return bot.NewBadArgument("Which todo? Give me its ID.")
	}
	id, err := strconv.ParseInt(ctx.Args[0], 10, 64)
	if err != nil {
		return bot.NewBadArgument("%q doesn't look like a todo ID.", ctx.Args[0])
	}

	owner, err := c.ownerID(ctx)
	if err != nil {
		return err
	}

	todo, err := c.store.TodoByID(ctx.Ctx, owner, id)
	if err == store.ErrTodoNotFound {
		return bot.NewBadArgument("No record by you with that ID. Is it correct?")
	}
	if err != nil {
		return err
	}

	return ctx.SendEmbed(todoInfoEmbed(todo, ctx.Message.Author))
}

func todoInfoEmbed(todo *models.Todo, author *discordgo.User) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Extra todo info",
		Description: fmt.Sprintf("%s\n[Message link!](%s)", todo.Content, todo.JumpURL),
		Timestamp:   todo.AddedAt.Format(time.RFC3339),
		Author: &discordgo.MessageEmbedAuthor{
			Name:    author.Username,
			IconURL: author.AvatarURL(""),
		},
	}
}

func (c *Cog) todoClear(ctx *bot.Context) error {
	confirm, err := ctx.Prompt("This will wipe your todos from my memory. Are you sure?")
	if err != nil {
		return err
	}
	if !confirm {
		return nil
	}

	owner, err := c.ownerID(ctx)
	if err != nil {
		return err
	}
	if _, err := c.store.ClearTodos(ctx.Ctx, owner); err != nil {
		return err
	}
	return ctx.React("✅")
}
