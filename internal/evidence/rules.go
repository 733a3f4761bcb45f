package evidence

// depRule maps a dependency name to what it implies. Unless lists
// dependencies that make the rule redundant (a meta-framework already
// accounts for the library).
type depRule struct {
	Name    string
	Implies string
	Unless  []string
}

// dependencyRules is walked in order. Meta-frameworks come before the UI
// libraries they embed so the more specific framework wins.
var dependencyRules = []depRule{
	// microservice transports
	{Name: "@nestjs/microservices", Implies: "type=microservice, framework=nestjs, transport=tcp"},
	{Name: "kafkajs", Implies: "type=microservice, transport=kafka"},
	{Name: "amqplib", Implies: "type=microservice, transport=rabbitmq"},
	{Name: "@grpc/grpc-js", Implies: "type=microservice, transport=grpc"},
	{Name: "moleculer", Implies: "type=microservice, framework=moleculer"},

	// fullstack-capable frameworks
	{Name: "next", Implies: "type=fullstack-or-frontend, framework=nextjs"},
	{Name: "nuxt", Implies: "type=fullstack-or-frontend, framework=nuxt"},
	{Name: "@remix-run/react", Implies: "type=fullstack-or-frontend, framework=remix"},
	{Name: "@sveltejs/kit", Implies: "type=fullstack-or-frontend, framework=sveltekit"},
	{Name: "django", Implies: "type=fullstack-or-frontend, framework=django, language=python"},

	// frontend-only libraries
	{Name: "react", Implies: "type=frontend, framework=react", Unless: []string{"next", "@remix-run/react", "gatsby"}},
	{Name: "vue", Implies: "type=frontend, framework=vue", Unless: []string{"nuxt"}},
	{Name: "svelte", Implies: "type=frontend, framework=svelte", Unless: []string{"@sveltejs/kit"}},
	{Name: "@angular/core", Implies: "type=frontend, framework=angular"},
	{Name: "gatsby", Implies: "type=frontend, framework=gatsby"},

	// API frameworks
	{Name: "@nestjs/core", Implies: "type=api, framework=nestjs", Unless: []string{"@nestjs/microservices"}},
	{Name: "express", Implies: "type=api, framework=express", Unless: []string{"@nestjs/core", "next"}},
	{Name: "fastify", Implies: "type=api, framework=fastify"},
	{Name: "koa", Implies: "type=api, framework=koa"},
	{Name: "hono", Implies: "type=api, framework=hono"},
	{Name: "fastapi", Implies: "type=api, framework=fastapi, language=python"},
	{Name: "flask", Implies: "type=api, framework=flask, language=python"},

	// ORMs
	{Name: "@prisma/client", Implies: "orm=prisma"},
	{Name: "prisma", Implies: "orm=prisma"},
	{Name: "typeorm", Implies: "orm=typeorm"},
	{Name: "mongoose", Implies: "orm=mongoose"},
	{Name: "sequelize", Implies: "orm=sequelize"},
	{Name: "drizzle-orm", Implies: "orm=drizzle"},
	{Name: "sqlalchemy", Implies: "orm=sqlalchemy"},

	// database drivers
	{Name: "pg", Implies: "database-driver=postgres"},
	{Name: "postgres", Implies: "database-driver=postgres"},
	{Name: "psycopg2", Implies: "database-driver=postgres"},
	{Name: "psycopg2-binary", Implies: "database-driver=postgres"},
	{Name: "mysql2", Implies: "database-driver=mysql"},
	{Name: "mysql", Implies: "database-driver=mysql"},
	{Name: "sqlite3", Implies: "database-driver=sqlite"},
	{Name: "better-sqlite3", Implies: "database-driver=sqlite"},
	{Name: "mongodb", Implies: "database-driver=mongo"},
	{Name: "pymongo", Implies: "database-driver=mongo"},

	// test runners
	{Name: "jest", Implies: "testing=jest"},
	{Name: "vitest", Implies: "testing=vitest"},
	{Name: "mocha", Implies: "testing=mocha"},
	{Name: "pytest", Implies: "testing=pytest"},
	{Name: "@playwright/test", Implies: "testing=playwright"},
	{Name: "playwright", Implies: "testing=playwright"},
	{Name: "cypress", Implies: "testing=cypress"},

	// language and tooling
	{Name: "typescript", Implies: "typescript"},
	{Name: "eslint", Implies: "linting=eslint"},
	{Name: "@biomejs/biome", Implies: "linting=biome"},
	{Name: "ruff", Implies: "linting=ruff"},
	{Name: "tailwindcss", Implies: "styling=tailwind"},
}

// markerRule maps a root-relative file path to what its presence implies.
type markerRule struct {
	Path    string
	Implies string
}

var configFileRules = []markerRule{
	{Path: "Dockerfile", Implies: "docker, type-hint=container"},
	{Path: "docker-compose.yml", Implies: "docker, compose, type-hint=container"},
	{Path: "docker-compose.yaml", Implies: "docker, compose, type-hint=container"},
	{Path: "compose.yaml", Implies: "docker, compose, type-hint=container"},
	{Path: "tsconfig.json", Implies: "typescript"},
	{Path: "next.config.js", Implies: "type=fullstack-or-frontend, framework=nextjs"},
	{Path: "next.config.mjs", Implies: "type=fullstack-or-frontend, framework=nextjs"},
	{Path: "next.config.ts", Implies: "type=fullstack-or-frontend, framework=nextjs"},
	{Path: "nest-cli.json", Implies: "framework=nestjs"},
	{Path: "prisma/schema.prisma", Implies: "orm=prisma"},
	{Path: "jest.config.js", Implies: "testing=jest"},
	{Path: "jest.config.ts", Implies: "testing=jest"},
	{Path: "vitest.config.ts", Implies: "testing=vitest"},
	{Path: "vitest.config.js", Implies: "testing=vitest"},
	{Path: "playwright.config.ts", Implies: "testing=playwright"},
	{Path: "cypress.config.ts", Implies: "testing=cypress"},
	{Path: "cypress.config.js", Implies: "testing=cypress"},
	{Path: "pytest.ini", Implies: "testing=pytest"},
	{Path: ".gitlab-ci.yml", Implies: "ci=gitlab"},
	{Path: "Jenkinsfile", Implies: "ci=jenkins"},
	{Path: "main.tf", Implies: "iac=terraform, type-hint=devops"},
	{Path: "Chart.yaml", Implies: "iac=helm, type-hint=devops"},
	{Path: "skaffold.yaml", Implies: "kubernetes, type-hint=devops"},
	{Path: "pnpm-lock.yaml", Implies: "packageManager=pnpm"},
	{Path: "yarn.lock", Implies: "packageManager=yarn"},
	{Path: "bun.lockb", Implies: "packageManager=bun"},
	{Path: "package-lock.json", Implies: "packageManager=npm"},
	{Path: "poetry.lock", Implies: "packageManager=poetry"},
	{Path: "uv.lock", Implies: "packageManager=uv"},
}

var folderRules = []markerRule{
	{Path: "src", Implies: "type-hint=source"},
	{Path: "lib", Implies: "type-hint=source"},
	{Path: "k8s", Implies: "kubernetes, type-hint=devops"},
	{Path: "kubernetes", Implies: "kubernetes, type-hint=devops"},
	{Path: "helm", Implies: "iac=helm, type-hint=devops"},
	{Path: "terraform", Implies: "iac=terraform, type-hint=devops"},
	{Path: "ansible", Implies: "iac=ansible, type-hint=devops"},
	{Path: ".github/workflows", Implies: "ci=github-actions"},
	{Path: "tests", Implies: "hasTests"},
	{Path: "test", Implies: "hasTests"},
	{Path: "__tests__", Implies: "hasTests"},
	{Path: "e2e", Implies: "hasE2E"},
	{Path: "docs", Implies: "hasDocs"},
}
