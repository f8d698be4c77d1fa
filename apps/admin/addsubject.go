package main

import (
	"context"
	"fmt"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/subject"
)

func (cli *commandLine) addSubject(name, teacher string) error {
	name = core.CleanString(name)
	if name == "" {
		return fmt.Errorf("subject name cannot be blank")
	}

	sub, err := cli.subSvc.Create(context.Background(), subject.NewSubject{
		Name:        name,
		TeacherName: core.CleanString(teacher),
	})
	if err != nil {
		return err
	}
	fmt.Printf("subject %q created: %s\n", sub.Name, sub.ID)
	return nil
}
