package writer

import "strings"

const defaultDocsPrompt = `You are an expert documentation engineer specializing in codebase analysis and comprehensive technical documentation. You integrate existing technical analysis into polished system-level documentation.

Use clear, descriptive prose rather than lists. Do not introduce assumptions, the documentation must strictly reflect the provided information. Write the requested section between [START] and [END] markers.`

// Section is one chapter of the high level document. The template carries a
// {documentation} placeholder for the merged code analysis.
type Section struct {
	Title    string
	Template string
}

const summaryTemplate = `You are provided with the technical documentation of a codebase:

{documentation}

Write the Summary section of the final documentation. Clearly articulate the system's purpose and the business value it delivers, describe the key features and primary use cases, and describe the technology stack: languages, frameworks and libraries in use. Write the section between [START] and [END] markers.`

const architectureTemplate = `You are provided with the technical documentation of a codebase:

{documentation}

Write the Architecture Overview section of the final documentation. Provide a high-level architectural overview explaining how the major system components interact, use a Mermaid diagram to represent the relationships between key components without exposing low-level details, and explain the core design patterns and the rationale behind the major architectural choices. Write the section between [START] and [END] markers.`

const dataFlowTemplate = `You are provided with the technical documentation of a codebase:

{documentation}

Write the Data Flow section of the final documentation. Describe the primary data flows between system components, use a Mermaid diagram to illustrate high-level data movement, explain the main business workflows the system supports, and explain how configuration choices influence the business logic and the data flows. Write the section between [START] and [END] markers.`

const securityTemplate = `You are provided with the technical documentation of a codebase:

{documentation}

Write the Security Concerns section of the final documentation. Describe the security measures in place, covering authentication and authorization mechanisms, data encryption, input validation and the handling of secrets and credentials. Write the section between [START] and [END] markers.`

const modulesTemplate = `You are provided with the technical documentation of a codebase:

{documentation}

Write the Key Modules & Responsibilities section of the final documentation. Describe the entry points of the codebase and give an overview of the major modules and their roles within the system, focusing on business logic rather than implementation detail. Write the section between [START] and [END] markers.`

const concernsTemplate = `You are provided with the technical documentation of a codebase:

{documentation}

Write the Cross Cutting Concerns section of the final documentation. Document the error handling strategy, the data consistency guarantees, performance optimization strategies such as batching and connection pooling, and the logging and monitoring approach. Write the section between [START] and [END] markers.`

func defaultSections() []Section {
	return []Section{
		{Title: "1. Summary", Template: summaryTemplate},
		{Title: "2. Architecture Overview", Template: architectureTemplate},
		{Title: "3. Data Flow", Template: dataFlowTemplate},
		{Title: "4. Security Concerns", Template: securityTemplate},
		{Title: "5. Key Modules & Responsibilities", Template: modulesTemplate},
		{Title: "6. Cross Cutting Concerns", Template: concernsTemplate},
	}
}

func renderSection(template string, documentation string) string {
	return strings.ReplaceAll(template, "{documentation}", documentation)
}

// stripMarkers cuts everything before [START] and after [END]. Models wrap
// their section output in the markers per the prompt contract.
func stripMarkers(text string) string {
	if index := strings.Index(text, "[START]"); index != -1 {
		text = text[index+len("[START]"):]
	}
	if index := strings.Index(text, "[END]"); index != -1 {
		text = text[:index]
	}
	return text
}
