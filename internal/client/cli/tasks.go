package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/taskapi/pkg/api"
)

func (c *Cli) runList(ctx context.Context) error {
	session, err := c.authorize(ctx)
	if err != nil {
		return err
	}

	tasks, err := c.apiClient.ListTasks(ctx)
	if err != nil {
		return explain(err)
	}

	c.io.Printf("=== Tasks of %s ===\n", session.Username)
	c.io.Println()

	if len(tasks) == 0 {
		c.io.Println("No tasks found.")
		c.io.Println("Use 'taskapi add' to create one.")
		return nil
	}

	done := 0
	for _, task := range tasks {
		if task.Completed {
			done++
		}
		c.io.Printf("%s #%d %s\n", checkbox(task.Completed), task.ID, task.Title)
	}

	c.io.Println()
	c.io.Printf("Total: %d, completed: %d\n", len(tasks), done)

	return nil
}

func (c *Cli) runAdd(ctx context.Context, args []string) error {
	if _, err := c.authorize(ctx); err != nil {
		return err
	}

	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		var err error
		title, err = c.io.ReadInput("Title: ")
		if err != nil {
			return fmt.Errorf("failed to read title: %w", err)
		}
	}

	description, err := c.io.ReadInput("Description (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read description: %w", err)
	}

	task, err := c.apiClient.CreateTask(ctx, api.TaskRequest{
		Title:       title,
		Description: description,
	})
	if err != nil {
		return explain(err)
	}

	c.io.Printf("✓ Task #%d created: %s\n", task.ID, task.Title)
	return nil
}

func (c *Cli) runShow(ctx context.Context, id int64) error {
	task, err := c.apiClient.GetTask(ctx, id)
	if err != nil {
		return err
	}

	c.io.Printf("=== Task #%d ===\n", task.ID)
	c.io.Printf("Title:       %s\n", task.Title)
	if task.Description != "" {
		c.io.Printf("Description: %s\n", task.Description)
	}
	c.io.Printf("Completed:   %t\n", task.Completed)
	c.io.Printf("Created:     %s\n", task.CreatedAt.Local().Format(time.DateTime))
	c.io.Printf("Updated:     %s\n", task.UpdatedAt.Local().Format(time.DateTime))

	return nil
}

func (c *Cli) runEdit(ctx context.Context, id int64) error {
	current, err := c.apiClient.GetTask(ctx, id)
	if err != nil {
		return err
	}

	// Пустой ввод оставляет текущее значение
	title, err := c.io.ReadInput(fmt.Sprintf("Title [%s]: ", current.Title))
	if err != nil {
		return fmt.Errorf("failed to read title: %w", err)
	}
	if title == "" {
		title = current.Title
	}

	description, err := c.io.ReadInput(fmt.Sprintf("Description [%s]: ", current.Description))
	if err != nil {
		return fmt.Errorf("failed to read description: %w", err)
	}
	if description == "" {
		description = current.Description
	}

	task, err := c.apiClient.UpdateTask(ctx, id, api.TaskRequest{
		Title:       title,
		Description: description,
	})
	if err != nil {
		return err
	}

	c.io.Printf("✓ Task #%d updated: %s\n", task.ID, task.Title)
	return nil
}

func (c *Cli) runToggle(ctx context.Context, id int64) error {
	task, err := c.apiClient.ToggleTask(ctx, id)
	if err != nil {
		return err
	}

	c.io.Printf("%s #%d %s\n", checkbox(task.Completed), task.ID, task.Title)
	return nil
}

func (c *Cli) runDelete(ctx context.Context, id int64) error {
	if err := c.apiClient.DeleteTask(ctx, id); err != nil {
		return err
	}

	c.io.Printf("✓ Task #%d deleted\n", id)
	return nil
}

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}
