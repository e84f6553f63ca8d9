package main

import "SentimentExporter/cmd/sentimentexporter/cmd"

func main() {
	cmd.Execute()
}
