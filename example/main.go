package main

import (
	"context"
	"log"
	"os"

	"github.com/kaya-app/pbxshare/pbxproj"
	"github.com/kaya-app/pbxshare/shareext"
)

func main() {
	projectPath := "Runner.xcodeproj"
	if len(os.Args) > 1 {
		projectPath = os.Args[1]
	}
	project, err := pbxproj.Open(projectPath)
	if err != nil {
		log.Fatal(err)
	}
	dumpToFile := func(name string) {
		file, err := os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatal(err)
		}
		defer file.Close()

		err = project.Dump(file)
		if err != nil {
			log.Fatal(err)
		}
	}

	dumpToFile("before.json")
	result, err := shareext.Scaffold(context.Background(), project, shareext.DefaultSettings())
	if err != nil {
		log.Fatal(err)
	}
	if result.AlreadyExists {
		log.Println("target already exists")
		return
	}
	log.Printf("created target %s, embed phase at index %d", result.TargetUUID, result.EmbedPhaseIndex)
	dumpToFile("after.json")
}
