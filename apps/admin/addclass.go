package main

import (
	"context"
	"fmt"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/timetable"
)

func (cli *commandLine) addClass(name string) error {
	name = core.CleanString(name)
	if name == "" {
		return fmt.Errorf("class name cannot be blank")
	}

	cls, err := cli.svc.CreateClass(context.Background(), timetable.NewClass{Name: name})
	if err != nil {
		return err
	}
	fmt.Printf("class %q created: %s\n", cls.Name, cls.ID)
	return nil
}
